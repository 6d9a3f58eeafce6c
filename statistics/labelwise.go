// Package statistics implements components C4 (label-wise statistics) and
// C4a (statistics subset) from spec.md §4.1: the per-time-slot
// covered/uncovered prediction counters that drive every refinement
// evaluation, and the coverage-count bookkeeping that survives across
// rules.
package statistics

import (
	"rockrules.io/syndrome/iface"
	"rockrules.io/syndrome/internal/errs"
)

// LabelWise holds the state that drives search for one training run,
// keyed by a fixed ground-truth count vector over T time slots.
type LabelWise struct {
	lm              iface.LabelMatrix
	numExamples     int
	numSlots        int
	groundTruth     []uint32
	coverageCount   []uint32
	totalPrediction []uint32
	prediction      []uint32
}

// New builds a fresh LabelWise statistics object from a label matrix.
// Returns *errs.ContractError if the matrix declares zero examples or zero
// time slots (spec.md §7 contract violations).
func New(lm iface.LabelMatrix) (*LabelWise, error) {
	n := lm.NumRows()
	t := lm.NumTimeSlots()
	if n == 0 {
		return nil, errs.NewContractError("numRows", "label matrix has zero examples")
	}
	if t == 0 {
		return nil, errs.NewContractError("numTimeSlots", "label matrix has zero time slots")
	}
	gt := make([]uint32, t)
	copy(gt, lm.ValuesByTimeSlot())
	return &LabelWise{
		lm:              lm,
		numExamples:     n,
		numSlots:        t,
		groundTruth:     gt,
		coverageCount:   make([]uint32, n),
		totalPrediction: make([]uint32, t),
		prediction:      make([]uint32, t),
	}, nil
}

// NumExamples returns N.
func (s *LabelWise) NumExamples() int { return s.numExamples }

// NumSlots returns T.
func (s *LabelWise) NumSlots() int { return s.numSlots }

// TimeSlot delegates to the underlying label matrix.
func (s *LabelWise) TimeSlot(i uint32) uint32 { return s.lm.TimeSlotOfExample(i) }

// GroundTruth returns the fixed per-slot ground-truth count vector.
func (s *LabelWise) GroundTruth() []uint32 { return s.groundTruth }

// CoverageCount returns the live per-example committed-rule coverage
// count. Monotonically non-decreasing over the training run (invariant 1).
func (s *LabelWise) CoverageCount() []uint32 { return s.coverageCount }

// Prediction returns the committed prediction vector: for each slot, the
// number of examples in that slot with CoverageCount()[i] > 0.
func (s *LabelWise) Prediction() []uint32 { return s.prediction }

// TotalPrediction returns the tentative prediction vector, updated as
// examples are added to or removed from the sub-sample currently being
// grown.
func (s *LabelWise) TotalPrediction() []uint32 { return s.totalPrediction }

// ResetSampledStatistics copies Prediction into TotalPrediction, the "at
// rest" invariant from spec.md §3. ResetCoveredStatistics is its alias:
// the two names exist because label-wise evaluation can be entered either
// from the sampling side (about to grow a rule) or from the coverage side
// (about to re-derive committed predictions) but both reduce to the same
// copy in this single-target instantiation.
func (s *LabelWise) ResetSampledStatistics() {
	copy(s.totalPrediction, s.prediction)
}

// ResetCoveredStatistics is an alias of ResetSampledStatistics, kept
// distinct per spec.md §4.1 so future multi-label instantiations can
// diverge without changing call sites.
func (s *LabelWise) ResetCoveredStatistics() {
	s.ResetSampledStatistics()
}

// AddSampledStatistic folds example i, with weight w, into TotalPrediction
// as "now covered" if it isn't already covered by a committed rule.
func (s *LabelWise) AddSampledStatistic(i uint32, w float64) {
	s.updateCoveredStatistic(i, w, false)
}

// UpdateCoveredStatistic adjusts TotalPrediction for example i: if
// CoverageCount()[i] == 0, the example's slot count is incremented
// (remove=false) or decremented (remove=true). Already-covered examples
// contribute nothing new, per the invariant in spec.md §3.
func (s *LabelWise) UpdateCoveredStatistic(i uint32, w float64, remove bool) {
	s.updateCoveredStatistic(i, w, remove)
}

func (s *LabelWise) updateCoveredStatistic(i uint32, _ float64, remove bool) {
	if s.coverageCount[i] != 0 {
		return
	}
	t := s.lm.TimeSlotOfExample(i)
	if remove {
		s.totalPrediction[t]--
	} else {
		s.totalPrediction[t]++
	}
}

// IncreaseCoverageCount records that one more committed rule covers
// example i.
func (s *LabelWise) IncreaseCoverageCount(i uint32) {
	s.coverageCount[i]++
}

// UpdatePredictions recomputes Prediction from scratch: for every slot,
// the count of examples with CoverageCount() > 0. Called once per
// committed rule.
func (s *LabelWise) UpdatePredictions() {
	for t := range s.prediction {
		s.prediction[t] = 0
	}
	for i := 0; i < s.numExamples; i++ {
		if s.coverageCount[i] > 0 {
			s.prediction[s.lm.TimeSlotOfExample(uint32(i))]++
		}
	}
}

// CreateSubset returns a statistics subset (C4a) scoped to the full,
// single-target label projection. The projection is trivial here, but the
// abstraction is preserved so head refinement can dispatch polymorphically
// on full-vs-partial label sets in future instantiations.
func (s *LabelWise) CreateSubset() *Subset {
	sub := &Subset{
		parent:    s,
		covered:   make([]uint32, s.numSlots),
		uncovered: make([]uint32, s.numSlots),
	}
	copy(sub.covered, s.prediction)
	copy(sub.uncovered, s.totalPrediction)
	return sub
}
