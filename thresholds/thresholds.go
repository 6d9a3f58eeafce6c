// Package thresholds implements component C7: a run-lifetime cache of
// each feature's unfiltered sorted vector, and per-rule subsets that keep
// a filtered view of every feature consistent with the conditions
// committed so far, via a coverage mask (C3) instead of re-scanning raw
// features on every candidate evaluation.
package thresholds

import (
	"strconv"

	cmap "github.com/orcaman/concurrent-map/v2"

	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/coverage"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/iface"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/refinement"
	"rockrules.io/syndrome/statistics"
)

// Thresholds owns the lazily-populated, run-lifetime base vector cache
// (C2), shared by every rule's Subset. It never mutates once a feature's
// vector has been fetched and sorted, so concurrent reads across rules
// and across the bounded parallel-for inside one rule (C9) are safe.
type Thresholds struct {
	fm      iface.FeatureMatrix
	nominal iface.NominalMask
	cache   cmap.ConcurrentMap[string, *featurevec.Vector]
}

// New builds a Thresholds cache over fm, consulting nominal to decide the
// operator family available to each feature's exact search (C8).
func New(fm iface.FeatureMatrix, nominal iface.NominalMask) *Thresholds {
	return &Thresholds{fm: fm, nominal: nominal, cache: cmap.New[*featurevec.Vector]()}
}

func key(j int) string { return strconv.Itoa(j) }

// baseVector returns feature j's unfiltered sorted vector, fetching and
// sorting it on first access and caching the result for the life of the
// run.
func (t *Thresholds) baseVector(j int) *featurevec.Vector {
	if v, ok := t.cache.Get(key(j)); ok {
		return v
	}
	pairs, missing := t.fm.FetchFeatureVector(j)
	v := featurevec.Build(pairs, missing)
	t.cache.SetIfAbsent(key(j), v)
	cached, _ := t.cache.Get(key(j))
	return cached
}

// IsNominal reports whether feature j must use equality conditions.
func (t *Thresholds) IsNominal(j int) bool { return t.nominal.IsNominal(j) }

// CreateSubset installs weights into stats (every example with non-zero
// weight counts as sampled), allocates a fresh coverage mask over N
// examples, and returns a per-rule subset ready to grow one rule.
func (t *Thresholds) CreateSubset(stats *statistics.LabelWise, weights container.WeightVector) *Subset {
	stats.ResetSampledStatistics()
	for i := 0; i < stats.NumExamples(); i++ {
		if w := weights[i]; w != 0 {
			stats.AddSampledStatistic(uint32(i), w)
		}
	}
	return &Subset{
		t:             t,
		stats:         stats,
		weights:       weights,
		mask:          coverage.NewMask(stats.NumExamples()),
		cacheFiltered: cmap.New[filteredEntry](),
	}
}

type filteredEntry struct {
	vector                    *featurevec.Vector
	numConditionsAtLastFilter int64
}

// Subset is the per-rule handle (C7's "subset") returned by CreateSubset:
// the live coverage mask plus a cache of each feature's filtered vector,
// invalidated feature-by-feature as conditions commit.
type Subset struct {
	t             *Thresholds
	stats         *statistics.LabelWise
	weights       container.WeightVector
	mask          *coverage.Mask
	cacheFiltered cmap.ConcurrentMap[string, filteredEntry]
	numModifications int64
}

// FilteredVector returns feature j's vector filtered down to the
// examples covered by every condition committed so far in this rule,
// the callback C8's exact search uses to read one feature's current
// candidate population.
func (s *Subset) FilteredVector(j int) *featurevec.Vector {
	if e, ok := s.cacheFiltered.Get(key(j)); ok && e.numConditionsAtLastFilter == s.numModifications {
		return e.vector
	}
	base := s.t.baseVector(j)
	filtered := base.FilterByPredicate(func(i uint32) bool { return s.mask.IsCovered(i) })
	s.cacheFiltered.Set(key(j), filteredEntry{vector: filtered, numConditionsAtLastFilter: s.numModifications})
	return filtered
}

func (s *Subset) weightOf(i uint32) float64 {
	if s.weights == nil {
		return 1
	}
	return float64(s.weights[i])
}

// FilterThresholds commits ref: advances numModifications, updates the
// coverage mask and the live statistics over the examples the condition
// adds or excludes, and invalidates that feature's filtered-vector cache
// entry for the next round. This is C7's filterThresholds/
// filterCurrentVector pair from spec.md §4.5.
func (s *Subset) FilterThresholds(ref *refinement.Refinement) {
	cond := ref.Condition
	step := s.mask.NextStep()

	preSplit := s.FilteredVector(cond.FeatureIndex)
	s.numModifications++
	start, end := s.adjustForZeroWeights(preSplit, cond)

	if cond.Covered {
		s.stats.ResetCoveredStatistics()
		s.mask.SetCoveredTarget(step)
		for i := start; i < end; i++ {
			ex := preSplit.Pairs[i].ExampleIndex
			s.mask.MarkStep(ex, step)
			s.stats.UpdateCoveredStatistic(ex, s.weightOf(ex), false)
		}
		return
	}

	for i := start; i < end; i++ {
		ex := preSplit.Pairs[i].ExampleIndex
		s.mask.MarkStep(ex, step)
		s.stats.UpdateCoveredStatistic(ex, s.weightOf(ex), true)
	}
	for _, ex := range preSplit.MissingSlice() {
		s.mask.MarkStep(ex, step)
		s.stats.UpdateCoveredStatistic(ex, s.weightOf(ex), true)
	}
}

// adjustForZeroWeights applies the zero-weight split adjustment
// (spec.md §4.5): if the sampled weights contain any zero, the sweep that
// found cond may have conservatively stopped short of a value boundary
// because it skipped zero-weight examples by weight rather than by value.
// This walks the gap between the committed boundary and Previous,
// comparing each skipped example's real value (or, for nominal features,
// equality) against the threshold, and only extends the span while values
// keep qualifying, which the underlying sort guarantees happens
// contiguously from the boundary outward.
func (s *Subset) adjustForZeroWeights(vec *featurevec.Vector, cond model.Condition) (start, end int) {
	start, end = cond.Start, cond.End
	if !s.weights.HasZeroWeights() {
		return start, end
	}

	nominal := cond.Comparator == model.EQ || cond.Comparator == model.NEQ
	ascending := cond.Previous >= cond.End
	matches := func(v float32) bool {
		switch {
		case nominal:
			return v == cond.Threshold
		case ascending:
			return v <= cond.Threshold
		default:
			return v > cond.Threshold
		}
	}

	if ascending {
		// The gap [end, Previous) holds the zero-weight examples the
		// sweep skipped past without extending End.
		idx := end
		for idx < cond.Previous && idx < len(vec.Pairs) && matches(vec.Pairs[idx].Value) {
			idx++
		}
		return start, idx
	}

	// The gap [Previous, start) holds the zero-weight examples the sweep
	// skipped past without retracting Start.
	idx := start - 1
	for idx >= cond.Previous && idx >= 0 && matches(vec.Pairs[idx].Value) {
		idx--
	}
	return idx + 1, end
}

// ApplyPrediction commits this rule's coverage into the run-lifetime
// statistics: every example the coverage mask currently marks as covered
// gets its CoverageCount incremented, and Prediction is recomputed from
// the updated counts. Called by the driver (C10) once it decides a
// grown rule's head improves on the current quality; a discarded rule
// never calls this, so its coverage never touches the live statistics.
func (s *Subset) ApplyPrediction() {
	for i := 0; i < s.stats.NumExamples(); i++ {
		if s.mask.IsCovered(uint32(i)) {
			s.stats.IncreaseCoverageCount(uint32(i))
		}
	}
	s.stats.UpdatePredictions()
}

// ResetThresholds clears the filtered-vector cache, zeroes
// numModifications, and bumps the coverage mask's target so every
// example reads as uncovered again. Used between rules.
func (s *Subset) ResetThresholds() {
	s.cacheFiltered.Clear()
	s.numModifications = 0
	s.mask.Reset()
}
