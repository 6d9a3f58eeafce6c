package refinement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/model"
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

// Six examples, one per slot, so the feature values can be engineered to
// correlate perfectly with ground truth on one side of a threshold.
func newSixSlotStats() *statistics.LabelWise {
	lm := &fakeLabelMatrix{
		timeSlotOfExample: []uint32{0, 1, 2, 3, 4, 5},
		valuesByTimeSlot:  []uint32{0, 0, 0, 1, 1, 1},
	}
	s, err := statistics.New(lm)
	if err != nil {
		panic(err)
	}
	return s
}

func TestSearchNumericFindsThresholdSeparatingGroundTruth(t *testing.T) {
	stats := newSixSlotStats()
	// Examples 3,4,5 (slots 1) have high feature values; 0,1,2 (slot 0) low.
	pairs := []featurevec.Pair{
		{Value: 1, ExampleIndex: 0},
		{Value: 2, ExampleIndex: 1},
		{Value: 3, ExampleIndex: 2},
		{Value: 10, ExampleIndex: 3},
		{Value: 11, ExampleIndex: 4},
		{Value: 12, ExampleIndex: 5},
	}
	vec := featurevec.Build(pairs, nil)
	weights := container.NewWeightVector(6)

	p := Params{FeatureIndex: 0, Nominal: false, MinCoverage: 1, UseLEQ: true, UseNEQ: true, TotalCovered: 6}
	best := Search(p, vec, weights, stats, nil)

	require.NotNil(t, best.Head)
	require.Equal(t, uint32(3), best.Condition.NumCovered)
	require.Contains(t, []model.Comparator{model.LEQ, model.GR}, best.Condition.Comparator)
}

func TestSearchRespectsMinCoverage(t *testing.T) {
	stats := newSixSlotStats()
	pairs := []featurevec.Pair{
		{Value: 1, ExampleIndex: 0},
		{Value: 2, ExampleIndex: 1},
		{Value: 3, ExampleIndex: 2},
		{Value: 10, ExampleIndex: 3},
		{Value: 11, ExampleIndex: 4},
		{Value: 12, ExampleIndex: 5},
	}
	vec := featurevec.Build(pairs, nil)
	weights := container.NewWeightVector(6)

	p := Params{FeatureIndex: 0, Nominal: false, MinCoverage: 4, UseLEQ: true, UseNEQ: true, TotalCovered: 6}
	best := Search(p, vec, weights, stats, nil)

	// No split keeps >=4 examples on both sides of this 3/3 split, so no
	// refinement should even meet the coverage gate for the one true split;
	// the search still may find something weaker, but never one with an
	// undersized side.
	if best.Head != nil {
		require.GreaterOrEqual(t, best.Condition.NumCovered, uint32(4))
	}
}

func TestSearchWithZeroWeightExamplesStillFindsASplit(t *testing.T) {
	stats := newSixSlotStats()
	pairs := []featurevec.Pair{
		{Value: 1, ExampleIndex: 0},
		{Value: 2, ExampleIndex: 1},
		{Value: 3, ExampleIndex: 2},
		{Value: 10, ExampleIndex: 3},
		{Value: 11, ExampleIndex: 4},
		{Value: 12, ExampleIndex: 5},
	}
	vec := featurevec.Build(pairs, nil)
	weights := container.WeightVector{1, 0, 1, 1, 0, 1}

	p := Params{FeatureIndex: 0, Nominal: false, MinCoverage: 1, UseLEQ: true, UseNEQ: true, TotalCovered: 4}
	best := Search(p, vec, weights, stats, nil)
	require.NotNil(t, best.Head)
}

func TestSearchNominalUsesEqualityComparators(t *testing.T) {
	stats := newSixSlotStats()
	pairs := []featurevec.Pair{
		{Value: 1, ExampleIndex: 0},
		{Value: 1, ExampleIndex: 1},
		{Value: 1, ExampleIndex: 2},
		{Value: 2, ExampleIndex: 3},
		{Value: 2, ExampleIndex: 4},
		{Value: 2, ExampleIndex: 5},
	}
	vec := featurevec.Build(pairs, nil)
	weights := container.NewWeightVector(6)

	p := Params{FeatureIndex: 0, Nominal: true, MinCoverage: 1, UseLEQ: true, UseNEQ: true, TotalCovered: 6}
	best := Search(p, vec, weights, stats, nil)

	require.NotNil(t, best.Head)
	require.Contains(t, []model.Comparator{model.EQ, model.NEQ}, best.Condition.Comparator)
}

func TestSearchSparseZeroBridgeConsidersImplicitZeros(t *testing.T) {
	stats := newSixSlotStats()
	// Only examples 3,4,5 appear explicitly (value 5); 0,1,2 are implicit
	// sparse zeros (TotalCovered accounts for all six).
	pairs := []featurevec.Pair{
		{Value: 5, ExampleIndex: 3},
		{Value: 5, ExampleIndex: 4},
		{Value: 5, ExampleIndex: 5},
	}
	vec := featurevec.Build(pairs, nil)
	weights := container.NewWeightVector(6)

	p := Params{FeatureIndex: 0, Nominal: false, MinCoverage: 1, UseLEQ: true, UseNEQ: true, TotalCovered: 6}
	best := Search(p, vec, weights, stats, nil)
	require.NotNil(t, best.Head)
}

func TestRefinementIsBetterThanPrefersLowerScore(t *testing.T) {
	a := &Refinement{Head: &model.Head{QualityScore: -0.9}}
	b := &Refinement{Head: &model.Head{QualityScore: -0.1}}
	require.True(t, a.IsBetterThan(b))
	require.False(t, b.IsBetterThan(a))

	var empty *Refinement
	require.True(t, a.IsBetterThan(empty))
}
