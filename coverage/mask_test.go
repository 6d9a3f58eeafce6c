package coverage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMaskCoversEverything(t *testing.T) {
	m := NewMask(3)
	for i := uint32(0); i < 3; i++ {
		require.True(t, m.IsCovered(i))
	}
}

func TestSetCoveredTargetAndMarkStep(t *testing.T) {
	m := NewMask(4)
	step := m.NextStep()
	m.SetCoveredTarget(step)
	m.MarkStep(0, step)
	m.MarkStep(1, step)
	m.MarkStep(2, m.NextStep()) // excluded by the complement of this condition

	require.True(t, m.IsCovered(0))
	require.True(t, m.IsCovered(1))
	require.False(t, m.IsCovered(2))
	require.False(t, m.IsCovered(3))
}

func TestResetUncoversEverything(t *testing.T) {
	m := NewMask(2)
	step := m.NextStep()
	m.SetCoveredTarget(step)
	m.MarkStep(0, step)
	require.True(t, m.IsCovered(0))

	m.Reset()
	require.False(t, m.IsCovered(0))
	require.False(t, m.IsCovered(1))
}

func TestStepsAreMonotonicAndNeverCollide(t *testing.T) {
	m := NewMask(1)
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		step := m.NextStep()
		require.False(t, seen[step], "step %d reused", step)
		seen[step] = true
	}
}
