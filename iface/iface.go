// Package iface declares the external collaborator interfaces the
// induction core consumes (spec.md §6): the label matrix, feature matrix,
// nominal mask, RNG, sub-samplers, stopping criteria, model builder, and
// prediction visitor. The core never depends on a concrete implementation
// of any of these; defaultcollab supplies one usable set.
package iface

import (
	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/model"
)

// LabelMatrix exposes the ground-truth target sequence, grouped by time
// slot, and the example-to-slot mapping.
type LabelMatrix interface {
	NumRows() int
	NumTimeSlots() int
	// TimeSlotOfExample returns the zero-based time-slot index example i
	// belongs to.
	TimeSlotOfExample(i uint32) uint32
	// ValuesByTimeSlot returns the ground-truth count for every slot.
	ValuesByTimeSlot() []uint32
	// IndicesByTimeSlot returns the [start, end) example-index range for
	// slot t.
	IndicesByTimeSlot(t uint32) (start, end uint32)
}

// FeatureMatrix fetches the unsorted (value, example-index) pairs and
// missing-index list for one feature column. j is a column index in
// [0, numCols).
type FeatureMatrix interface {
	NumCols() int
	FetchFeatureVector(j int) (pairs []featurevec.Pair, missing []uint32)
}

// NominalMask tells the search whether feature j must use equality
// conditions (nominal) or ordering conditions (numerical).
type NominalMask interface {
	IsNominal(j int) bool
}

// RNG is a deterministic, seedable integer stream.
type RNG interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// FeatureSubSampler produces the candidate feature indices examined by one
// iteration of top-down induction (C9).
type FeatureSubSampler interface {
	SubSample(rng RNG) container.IndexVector
}

// InstanceSubSampler produces a weight vector of length N for growing one
// rule.
type InstanceSubSampler interface {
	SubSample(rng RNG, n int) container.WeightVector
}

// StopDecision is the result of testing a stopping criterion.
type StopDecision int

const (
	// Continue means keep inducing rules.
	Continue StopDecision = iota
	// StoreStop latches "a stopping rule first wanted to stop here" but
	// lets induction keep running; numUsedRules records the latch point.
	StoreStop
	// ForceStop ends induction immediately, overriding any StoreStop.
	ForceStop
)

// StoppingCriterion decides, after numRules committed rules, whether
// induction should continue.
type StoppingCriterion interface {
	// Test returns the decision and, for StoreStop/ForceStop, the rule
	// count k that should be persisted as numUsedRules.
	Test(numRules int) (decision StopDecision, k int)
}

// ModelBuilder accumulates committed rules and assembles the final model.
type ModelBuilder interface {
	AddRule(conditions []model.Condition, head model.Head)
	// Build assembles the final rule list. numUsedRules == 0 means "use
	// all rules".
	Build(numUsedRules int) *model.RuleList
}

// PredictionVisitor is invoked once per committed rule with the current
// committed prediction vector, and once at the end with the ground truth.
type PredictionVisitor interface {
	VisitPrediction(prediction []uint32)
	VisitGroundTruth(groundTruth []uint32)
}
