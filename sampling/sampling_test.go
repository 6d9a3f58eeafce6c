package sampling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rockrules.io/syndrome/container"
)

func TestUniformFeatureSubSamplerDrawsDistinctIndicesWithinRange(t *testing.T) {
	s := NewUniformFeatureSubSampler(10, 4)
	rng := container.NewRNG(7)

	out := s.SubSample(rng)
	require.Len(t, out, 4)

	seen := make(map[uint32]bool)
	for _, j := range out {
		require.False(t, seen[j], "duplicate index %d", j)
		seen[j] = true
		require.Less(t, j, uint32(10))
	}
}

func TestUniformFeatureSubSamplerReturnsEverythingWhenUnbounded(t *testing.T) {
	s := NewUniformFeatureSubSampler(5, 0)
	rng := container.NewRNG(1)
	out := s.SubSample(rng)
	require.Len(t, out, 5)
}

func TestUniformInstanceSubSamplerWeightsExactlySampleSize(t *testing.T) {
	s := NewUniformInstanceSubSampler(3)
	rng := container.NewRNG(5)
	w := s.SubSample(rng, 8)
	require.Len(t, w, 8)
	require.Equal(t, 3, w.NumNonZeroWeights())
}

func TestUniformInstanceSubSamplerNoSubSamplingWhenSizeCoversAll(t *testing.T) {
	s := NewUniformInstanceSubSampler(0)
	rng := container.NewRNG(5)
	w := s.SubSample(rng, 4)
	require.Equal(t, 4, w.NumNonZeroWeights())
	require.False(t, w.HasZeroWeights())
}
