package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"rockrules.io/syndrome/model"
)

type fakeFeatureSource struct {
	rows [][]float32 // NaN-sentinel handled by present flag below
	miss map[[2]int]bool
}

func (f *fakeFeatureSource) NumRows() int { return len(f.rows) }
func (f *fakeFeatureSource) Value(i uint32, j int) (float32, bool) {
	if f.miss[[2]int{int(i), j}] {
		return 0, false
	}
	return f.rows[i][j], true
}

func TestRecountNoConditionsCountsEveryRow(t *testing.T) {
	fs := &fakeFeatureSource{rows: [][]float32{{1}, {2}, {3}}}
	n, err := Recount(&model.Rule{}, fs)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestRecountSingleLEQCondition(t *testing.T) {
	fs := &fakeFeatureSource{rows: [][]float32{{1}, {5}, {10}}}
	rule := &model.Rule{Conditions: []model.Condition{
		{FeatureIndex: 0, Comparator: model.LEQ, Threshold: 5},
	}}
	n, err := Recount(rule, fs)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRecountConjunctionOfTwoConditions(t *testing.T) {
	fs := &fakeFeatureSource{rows: [][]float32{
		{1, 100},
		{5, 100},
		{10, 100},
		{3, 1},
	}}
	rule := &model.Rule{Conditions: []model.Condition{
		{FeatureIndex: 0, Comparator: model.LEQ, Threshold: 5},
		{FeatureIndex: 1, Comparator: model.GR, Threshold: 50},
	}}
	n, err := Recount(rule, fs)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRecountTreatsMissingAsZero(t *testing.T) {
	fs := &fakeFeatureSource{
		rows: [][]float32{{0}, {3}},
		miss: map[[2]int]bool{{0, 0}: true},
	}
	rule := &model.Rule{Conditions: []model.Condition{
		{FeatureIndex: 0, Comparator: model.LEQ, Threshold: 0},
	}}
	n, err := Recount(rule, fs)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestRecountNominalEquality(t *testing.T) {
	fs := &fakeFeatureSource{rows: [][]float32{{1}, {2}, {1}}}
	rule := &model.Rule{Conditions: []model.Condition{
		{FeatureIndex: 0, Comparator: model.EQ, Threshold: 1},
	}}
	n, err := Recount(rule, fs)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
