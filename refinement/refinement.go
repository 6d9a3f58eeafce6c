// Package refinement implements component C8: the exact per-feature
// refinement search over a sorted, sparse feature vector with missing
// values, supporting numerical (<=, >) and nominal (==, !=) splits and an
// implicit zero class for sparse features.
package refinement

import (
	"math"

	"rockrules.io/syndrome/model"
)

// Refinement is a tentative (condition, head, quality) triple evaluated
// during search. An empty Refinement (no Head) compares as having +inf
// score, i.e. it never beats a real candidate.
type Refinement struct {
	Condition model.Condition
	Head      *model.Head
}

// Score returns the refinement's quality score, or +Inf if it has no head
// yet (the "empty refinement" starting state described in spec.md §4.6).
func (r *Refinement) Score() float64 {
	if r == nil || r.Head == nil {
		return math.Inf(1)
	}
	return r.Head.QualityScore
}

// IsBetterThan reports whether r has strictly lower quality score than
// other. nil receivers/arguments are treated as the empty (+Inf) case.
func (r *Refinement) IsBetterThan(other *Refinement) bool {
	return r.Score() < other.Score()
}
