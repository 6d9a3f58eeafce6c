package thresholds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/refinement"
	"rockrules.io/syndrome/statistics"
)

type fakeLabelMatrix struct {
	timeSlotOfExample []uint32
	valuesByTimeSlot  []uint32
}

func (f *fakeLabelMatrix) NumRows() int                     { return len(f.timeSlotOfExample) }
func (f *fakeLabelMatrix) NumTimeSlots() int                 { return len(f.valuesByTimeSlot) }
func (f *fakeLabelMatrix) TimeSlotOfExample(i uint32) uint32 { return f.timeSlotOfExample[i] }
func (f *fakeLabelMatrix) ValuesByTimeSlot() []uint32        { return f.valuesByTimeSlot }
func (f *fakeLabelMatrix) IndicesByTimeSlot(uint32) (uint32, uint32) { return 0, 0 }

type fakeFeatureMatrix struct {
	cols [][]featurevec.RawPair
	miss [][]uint32
}

func (f *fakeFeatureMatrix) NumCols() int { return len(f.cols) }
func (f *fakeFeatureMatrix) FetchFeatureVector(j int) ([]featurevec.Pair, []uint32) {
	return f.cols[j], f.miss[j]
}

type allNumeric struct{}

func (allNumeric) IsNominal(int) bool { return false }

func newFixture() (*statistics.LabelWise, *Thresholds) {
	lm := &fakeLabelMatrix{
		timeSlotOfExample: []uint32{0, 0, 1, 1},
		valuesByTimeSlot:  []uint32{5, 9},
	}
	stats, err := statistics.New(lm)
	if err != nil {
		panic(err)
	}
	fm := &fakeFeatureMatrix{
		cols: [][]featurevec.RawPair{
			{
				{Value: 1, ExampleIndex: 0},
				{Value: 2, ExampleIndex: 1},
				{Value: 10, ExampleIndex: 2},
				{Value: 11, ExampleIndex: 3},
			},
		},
		miss: [][]uint32{nil},
	}
	th := New(fm, allNumeric{})
	return stats, th
}

func TestFilteredVectorNarrowsToCoveredExamples(t *testing.T) {
	stats, th := newFixture()
	weights := container.NewWeightVector(4)
	sub := th.CreateSubset(stats, weights)

	full := sub.FilteredVector(0)
	require.Len(t, full.Pairs, 4)

	ref := &refinement.Refinement{Condition: model.Condition{
		FeatureIndex: 0, Comparator: model.LEQ, Threshold: 5, Covered: true,
		Start: 0, End: 2, Previous: 2, NumCovered: 2,
	}}
	sub.FilterThresholds(ref)

	narrowed := sub.FilteredVector(0)
	require.Len(t, narrowed.Pairs, 2)
	require.Equal(t, uint32(0), narrowed.Pairs[0].ExampleIndex)
	require.Equal(t, uint32(1), narrowed.Pairs[1].ExampleIndex)
}

func TestFilterThresholdsExcludesComplementExamples(t *testing.T) {
	stats, th := newFixture()
	weights := container.NewWeightVector(4)
	sub := th.CreateSubset(stats, weights)

	ref := &refinement.Refinement{Condition: model.Condition{
		FeatureIndex: 0, Comparator: model.GR, Threshold: 5, Covered: false,
		Start: 0, End: 2, Previous: 2, NumCovered: 2,
	}}
	sub.FilterThresholds(ref)

	narrowed := sub.FilteredVector(0)
	require.Len(t, narrowed.Pairs, 2)
	for _, p := range narrowed.Pairs {
		require.True(t, p.ExampleIndex == 2 || p.ExampleIndex == 3)
	}
}

func TestAdjustForZeroWeightsWalksTheGapByValue(t *testing.T) {
	stats, th := newFixture()
	// Example 1 has weight zero: the sweep would have conservatively ended
	// its span at example 0 (index 0), with Previous pointing past example
	// 1 at the next distinct value (index 2). Since example 1's real value
	// (2) is <= the threshold, the adjustment should pull it in.
	weights := container.WeightVector{1, 0, 1, 1}
	sub := th.CreateSubset(stats, weights)

	cond := model.Condition{
		FeatureIndex: 0, Comparator: model.LEQ, Threshold: 6, Covered: true,
		Start: 0, End: 1, Previous: 2, NumCovered: 1,
	}
	start, end := sub.adjustForZeroWeights(sub.FilteredVector(0), cond)
	require.Equal(t, 0, start)
	require.Equal(t, 2, end)
}

func TestAdjustForZeroWeightsNoopWithoutZeroWeights(t *testing.T) {
	stats, th := newFixture()
	weights := container.NewWeightVector(4)
	sub := th.CreateSubset(stats, weights)

	cond := model.Condition{Start: 0, End: 1, Previous: 2}
	start, end := sub.adjustForZeroWeights(sub.FilteredVector(0), cond)
	require.Equal(t, cond.Start, start)
	require.Equal(t, cond.End, end)
}

func TestApplyPredictionIncrementsCoverageForMaskedExamples(t *testing.T) {
	stats, th := newFixture()
	weights := container.NewWeightVector(4)
	sub := th.CreateSubset(stats, weights)

	ref := &refinement.Refinement{Condition: model.Condition{
		FeatureIndex: 0, Comparator: model.LEQ, Threshold: 5, Covered: true,
		Start: 0, End: 2, Previous: 2, NumCovered: 2,
	}}
	sub.FilterThresholds(ref)
	sub.ApplyPrediction()

	require.Equal(t, uint32(1), stats.CoverageCount()[0])
	require.Equal(t, uint32(1), stats.CoverageCount()[1])
	require.Equal(t, uint32(0), stats.CoverageCount()[2])
	require.Equal(t, []uint32{2, 0}, stats.Prediction())
}

func TestResetThresholdsUncoversEverythingAndClearsCache(t *testing.T) {
	stats, th := newFixture()
	weights := container.NewWeightVector(4)
	sub := th.CreateSubset(stats, weights)

	ref := &refinement.Refinement{Condition: model.Condition{
		FeatureIndex: 0, Comparator: model.LEQ, Threshold: 5, Covered: true,
		Start: 0, End: 2, Previous: 2, NumCovered: 2,
	}}
	sub.FilterThresholds(ref)
	sub.ResetThresholds()

	// A stale cache entry would still hold the 4-pair pre-split vector.
	after := sub.FilteredVector(0)
	require.Len(t, after.Pairs, 0)
}
