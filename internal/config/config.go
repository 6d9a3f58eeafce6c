// Package config implements component C13: the typed, validated
// configuration for one induction run, loaded from a YAML file via
// go-zero's core/conf loader the way the teacher's own rds_config package
// is loaded, but instance-scoped instead of package-level globals so
// concurrent runs with different configs never collide.
package config

import (
	"time"

	"github.com/zeromicro/go-zero/core/conf"

	"rockrules.io/syndrome/internal/errs"
)

// Config is the full set of knobs the driver (engine, C10) and the
// induction core (C8/C9) need for one run.
type Config struct {
	MinSupport         float64       `json:"minSupport"`
	MaxConditions      int           `json:"maxConditions"`
	NumThreads         int           `json:"numThreads"`
	MaxRules           int           `json:"maxRules"`
	TimeLimit          time.Duration `json:"timeLimit,optional"`
	UseLEQ             bool          `json:"useLEQ,optional"`
	UseNEQ             bool          `json:"useNEQ,optional"`
	Seed               int64         `json:"seed,optional"`
	NumFeatureSamples  int           `json:"numFeatureSamples,optional"`
	NumInstanceSamples int           `json:"numInstanceSamples,optional"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	var c Config
	if err := conf.Load(path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate enforces the contract violations spec.md §7 names. It returns
// the first violation found, wrapped as *errs.ContractError.
func (c *Config) Validate(numExamples, numTimeSlots int) error {
	if c.MinSupport < 0 || c.MinSupport >= 1 {
		return errs.NewContractError("minSupport", "must be in [0, 1)")
	}
	if c.MaxConditions == 0 {
		return errs.NewContractError("maxConditions", "must be nonzero (-1 means unbounded)")
	}
	if c.NumThreads == 0 {
		return errs.NewContractError("numThreads", "must be nonzero")
	}
	if numExamples == 0 {
		return errs.NewContractError("numRows", "label matrix has zero examples")
	}
	if numTimeSlots == 0 {
		return errs.NewContractError("numTimeSlots", "label matrix has zero time slots")
	}
	return nil
}
