// Package head implements component C6: head refinement. Given a
// statistics subset and a selector for which of its four prediction
// vectors to try, it scores the candidate via evaluation.Score and tracks
// the best-scoring head discovered across a sequence of calls.
package head

import (
	"rockrules.io/syndrome/evaluation"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/statistics"
)

// Refiner accumulates the best head discovered across repeated FindHead
// calls for one candidate-refinement search (one phase, or one feature's
// whole sweep, depending on how the caller scopes it).
type Refiner struct {
	best *model.Head
}

// NewRefiner returns an empty head refiner.
func NewRefiner() *Refiner {
	return &Refiner{}
}

// FindHead asks subset for its (uncovered, accumulated)-selected
// prediction vector, scores it against groundTruth, and, iff the result
// is strictly better than both currentBest and anything this Refiner has
// already found, records it as the new best-so-far and returns it.
// Otherwise returns whichever of currentBest/the running best is better
// (ties keep the earlier-discovered candidate, i.e. the one already
// held). A candidate whose quality is undefined (zero variance in either
// sequence) is silently rejected: it can never become the best.
func (r *Refiner) FindHead(currentBest *model.Head, subset *statistics.Subset, groundTruth []uint32, uncovered, accumulated bool) *model.Head {
	pred := subset.CalculateLabelWisePrediction(uncovered, accumulated)
	score, ok := evaluation.Score(pred, groundTruth)
	if !ok {
		return r.bestOf(currentBest)
	}

	running := r.bestOf(currentBest)
	if running == nil || score < running.QualityScore {
		r.best = &model.Head{Prediction: pred, QualityScore: score}
		return r.best
	}
	return running
}

func (r *Refiner) bestOf(currentBest *model.Head) *model.Head {
	switch {
	case r.best == nil:
		return currentBest
	case currentBest == nil:
		return r.best
	case r.best.QualityScore <= currentBest.QualityScore:
		return r.best
	default:
		return currentBest
	}
}

// PollHead yields ownership of the best head this Refiner has discovered,
// resetting the Refiner to empty. The caller takes the returned head;
// losing candidates were already dropped.
func (r *Refiner) PollHead() *model.Head {
	best := r.best
	r.best = nil
	return best
}
