package modelstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rockrules.io/syndrome/model"
)

func sampleList() *model.RuleList {
	return &model.RuleList{
		DefaultRule: &model.Rule{Head: model.Head{Prediction: []uint32{1}, QualityScore: 0}},
		Rules: []model.Rule{
			{
				Conditions: []model.Condition{{FeatureIndex: 0, Comparator: model.LEQ, Threshold: 3, NumCovered: 7}},
				Head:       model.Head{Prediction: []uint32{2, 4}, QualityScore: -0.5},
			},
		},
	}
}

func TestOpenCreatesRunsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NotNil(t, store.db)
	require.True(t, store.db.Migrator().HasTable(&Run{}))
}

func TestSaveThenLoadRoundTripsTheModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	store, err := Open(path)
	require.NoError(t, err)

	list := sampleList()
	id, err := store.Save(`{"maxRules":10}`, list, -0.5)
	require.NoError(t, err)
	require.NotZero(t, id)

	run, got, err := store.Load(id)
	require.NoError(t, err)
	require.Equal(t, 1, run.NumRules)
	require.Equal(t, -0.5, run.FinalQuality)
	require.Equal(t, list.DefaultRule.Head.Prediction, got.DefaultRule.Head.Prediction)
	require.Len(t, got.Rules, 1)
	require.Equal(t, list.Rules[0].Conditions[0].Threshold, got.Rules[0].Conditions[0].Threshold)
}

func TestLoadUnknownIDErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	store, err := Open(path)
	require.NoError(t, err)

	_, _, err = store.Load(999)
	require.Error(t, err)
}
