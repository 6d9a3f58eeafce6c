// Package modelstore implements component C14: a SQLite-backed
// persistence layer for a completed induction run, mirroring the
// teacher's one-row-per-task pattern in inc_rule_dig
// (InsertIncRdsTaskToDB / WriteMinimalIncRulesToDB) but writing a single
// row once, at the end of engine.Run, instead of incrementally.
package modelstore

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rockrules.io/syndrome/model"
)

// Run is one persisted induction run.
type Run struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time
	ConfigJSON   string `gorm:"column:config_json"`
	ModelBlob    []byte `gorm:"column:model_blob"`
	NumRules     int    `gorm:"column:num_rules"`
	FinalQuality float64 `gorm:"column:final_quality"`
}

func (Run) TableName() string { return "runs" }

// Store wraps a SQLite-backed gorm.DB scoped to the runs table.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if absent) a SQLite database at path and ensures
// the runs table exists.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("modelstore: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("modelstore: migrating: %w", err)
	}
	return &Store{db: db}, nil
}

// Save encodes list as msgpack and inserts a new run row, returning its
// assigned id.
func (s *Store) Save(configJSON string, list *model.RuleList, finalQuality float64) (int64, error) {
	blob, err := msgpack.Marshal(list)
	if err != nil {
		return 0, fmt.Errorf("modelstore: encoding model: %w", err)
	}
	run := &Run{
		CreatedAt:    time.Now(),
		ConfigJSON:   configJSON,
		ModelBlob:    blob,
		NumRules:     len(list.Rules),
		FinalQuality: finalQuality,
	}
	if err := s.db.Create(run).Error; err != nil {
		return 0, fmt.Errorf("modelstore: inserting run: %w", err)
	}
	return run.ID, nil
}

// Load fetches run id and decodes its stored model.
func (s *Store) Load(id int64) (*Run, *model.RuleList, error) {
	var run Run
	if err := s.db.First(&run, id).Error; err != nil {
		return nil, nil, fmt.Errorf("modelstore: loading run %d: %w", id, err)
	}
	var list model.RuleList
	if err := msgpack.Unmarshal(run.ModelBlob, &list); err != nil {
		return nil, nil, fmt.Errorf("modelstore: decoding run %d: %w", id, err)
	}
	return &run, &list, nil
}
