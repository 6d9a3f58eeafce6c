package statistics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLabelMatrix struct {
	timeSlotOfExample []uint32
	valuesByTimeSlot  []uint32
}

func (f *fakeLabelMatrix) NumRows() int                       { return len(f.timeSlotOfExample) }
func (f *fakeLabelMatrix) NumTimeSlots() int                   { return len(f.valuesByTimeSlot) }
func (f *fakeLabelMatrix) TimeSlotOfExample(i uint32) uint32   { return f.timeSlotOfExample[i] }
func (f *fakeLabelMatrix) ValuesByTimeSlot() []uint32          { return f.valuesByTimeSlot }
func (f *fakeLabelMatrix) IndicesByTimeSlot(t uint32) (uint32, uint32) {
	start, end := uint32(0), uint32(0)
	for i, slot := range f.timeSlotOfExample {
		if slot == t {
			if start == 0 && end == 0 {
				start = uint32(i)
			}
			end = uint32(i + 1)
		}
	}
	return start, end
}

func newFixture() *LabelWise {
	lm := &fakeLabelMatrix{
		timeSlotOfExample: []uint32{0, 0, 1, 1},
		valuesByTimeSlot:  []uint32{5, 9},
	}
	s, err := New(lm)
	if err != nil {
		panic(err)
	}
	return s
}

func TestNewRejectsEmptyLabelMatrix(t *testing.T) {
	_, err := New(&fakeLabelMatrix{timeSlotOfExample: nil, valuesByTimeSlot: []uint32{1}})
	require.Error(t, err)

	_, err = New(&fakeLabelMatrix{timeSlotOfExample: []uint32{0}, valuesByTimeSlot: nil})
	require.Error(t, err)
}

func TestUpdateCoveredStatisticOnlyCountsUncommittedExamples(t *testing.T) {
	s := newFixture()
	s.ResetSampledStatistics()

	s.UpdateCoveredStatistic(0, 1, false)
	require.Equal(t, []uint32{1, 0}, s.TotalPrediction())

	s.IncreaseCoverageCount(0)
	s.UpdateCoveredStatistic(0, 1, false) // already committed: no-op
	require.Equal(t, []uint32{1, 0}, s.TotalPrediction())
}

func TestUpdatePredictionsRecomputesFromCoverageCount(t *testing.T) {
	s := newFixture()
	s.IncreaseCoverageCount(0)
	s.IncreaseCoverageCount(2)
	s.UpdatePredictions()
	require.Equal(t, []uint32{1, 1}, s.Prediction())
}

func TestCreateSubsetSnapshotsCurrentCounters(t *testing.T) {
	s := newFixture()
	s.IncreaseCoverageCount(0)
	s.UpdatePredictions()
	s.ResetSampledStatistics()

	sub := s.CreateSubset()
	require.Equal(t, s.Prediction(), sub.CalculateLabelWisePrediction(false, false))
	require.Equal(t, s.TotalPrediction(), sub.CalculateLabelWisePrediction(true, false))
}
