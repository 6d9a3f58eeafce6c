package refinement

import (
	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/head"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/statistics"
)

// sweepArgs bundles one directional pass (phase A or phase B) over a
// contiguous slice of a feature's sorted pairs.
type sweepArgs struct {
	pairs       []featurevec.Pair
	offset      int // absolute index of pairs[0] within the feature's full sorted vector
	ascending   bool
	weights     container.WeightVector
	subset      *statistics.Subset
	hr          *head.Refiner
	groundTruth []uint32
	currentBest *model.Head
	p           Params
	consider    func(model.Condition, *model.Head)
}

// arithmeticMean returns the midpoint of a and b, the numerical threshold
// spec.md §4.4 prescribes at every distinct-value boundary.
func arithmeticMean(a, b float32) float32 {
	return (a + b) / 2
}

func gateAllowed(p Params, cmp model.Comparator) bool {
	switch cmp {
	case model.LEQ:
		return p.UseLEQ
	case model.NEQ:
		return p.UseNEQ
	default:
		return true
	}
}

// sweep ascends (or descends, if !ascending) over one sign-homogeneous
// slice of a feature's sorted pairs, evaluating a candidate split at every
// boundary between distinct values among positive-weight examples. It
// returns the absolute index of the last pair it processed, or -1 if the
// slice contains no positive-weight example.
func sweep(a sweepArgs) int {
	pairs := a.pairs
	n := len(pairs)
	if n == 0 {
		return -1
	}

	order := make([]int, n)
	if a.ascending {
		for i := 0; i < n; i++ {
			order[i] = i
		}
	} else {
		for i := 0; i < n; i++ {
			order[i] = n - 1 - i
		}
	}

	startPos := -1
	for k, localIdx := range order {
		if weightOf(a.weights, pairs[localIdx].ExampleIndex) != 0 {
			startPos = k
			break
		}
	}
	if startPos == -1 {
		return -1
	}

	firstLocal := order[startPos]
	a.subset.AddToSubset(pairs[firstLocal].ExampleIndex, weightOf(a.weights, pairs[firstLocal].ExampleIndex))

	numAdded := 1
	prevVal := pairs[firstLocal].Value
	lastPositiveLocal := firstLocal
	lastProcessedLocal := firstLocal

	for k := startPos + 1; k < n; k++ {
		localIdx := order[k]
		ex := pairs[localIdx].ExampleIndex
		wt := weightOf(a.weights, ex)
		if wt == 0 {
			lastProcessedLocal = localIdx
			continue
		}
		if pairs[localIdx].Value != prevVal {
			a.evaluateBoundary(pairs, lastPositiveLocal, localIdx, numAdded, n)
			if a.p.Nominal {
				a.subset.ResetSubset()
			}
		}
		a.subset.AddToSubset(ex, wt)
		numAdded++
		prevVal = pairs[localIdx].Value
		lastPositiveLocal = localIdx
		lastProcessedLocal = localIdx
	}

	if a.p.Nominal {
		a.evaluateBoundary(pairs, lastPositiveLocal, -1, numAdded, n)
	}

	return a.offset + lastProcessedLocal
}

// evaluateBoundary scores the split between the group just closed
// (centered on lastPositiveLocal's value) and whatever comes next
// (boundaryLocalIdx, or -1 for "end of this phase").
//
// The committed span's boundary (End for an ascending sweep, Start for a
// descending one) is set conservatively at the last positive-weight
// example actually folded into the subset, not at boundaryLocalIdx: any
// zero-weight examples sorted between that example and the next
// differently-valued one were skipped by weight, not by value, and may or
// may not truly belong on this side of the threshold. Previous records
// the value-based boundary (boundaryLocalIdx) those zero-weight examples
// are known to fall short of, so the thresholds subsystem's zero-weight
// split adjustment (C7) can walk the gap by comparing each skipped
// example's actual value against the threshold once the condition
// commits.
func (a sweepArgs) evaluateBoundary(pairs []featurevec.Pair, lastPositiveLocal, boundaryLocalIdx, numAdded, n int) {
	if !a.p.Nominal && boundaryLocalIdx == -1 {
		// Numerical features have no standalone trailing-group
		// evaluation; the opposite phase and the negative/non-negative
		// bridge (phase D) cover the boundary at the far end.
		return
	}

	var start, end, previous int
	if a.ascending {
		start = a.offset
		end = a.offset + lastPositiveLocal + 1
		if boundaryLocalIdx >= 0 {
			previous = a.offset + boundaryLocalIdx
		} else {
			previous = a.offset + n
		}
	} else {
		end = a.offset + n
		start = a.offset + lastPositiveLocal
		if boundaryLocalIdx >= 0 {
			previous = a.offset + boundaryLocalIdx + 1
		} else {
			previous = a.offset
		}
	}

	var threshold float32
	var coveredCmp, complementCmp model.Comparator
	if a.p.Nominal {
		threshold = pairs[lastPositiveLocal].Value
		coveredCmp, complementCmp = model.EQ, model.NEQ
	} else {
		coveredCmp, complementCmp = model.LEQ, model.GR
		if !a.ascending {
			coveredCmp, complementCmp = model.GR, model.LEQ
		}
		if boundaryLocalIdx >= 0 {
			threshold = arithmeticMean(pairs[lastPositiveLocal].Value, pairs[boundaryLocalIdx].Value)
		} else {
			threshold = pairs[lastPositiveLocal].Value
		}
	}

	numCovered := numAdded
	numComplement := a.p.TotalCovered - numCovered

	if gateAllowed(a.p, coveredCmp) && numCovered >= a.p.MinCoverage {
		h := a.hr.FindHead(a.currentBest, a.subset, a.groundTruth, false, false)
		a.consider(model.Condition{
			FeatureIndex: a.p.FeatureIndex,
			Comparator:   coveredCmp,
			Threshold:    threshold,
			NumCovered:   uint32(numCovered),
			Covered:      true,
			Start:        start,
			End:          end,
			Previous:     previous,
		}, h)
	}
	if gateAllowed(a.p, complementCmp) && numComplement >= a.p.MinCoverage {
		h := a.hr.FindHead(a.currentBest, a.subset, a.groundTruth, true, false)
		a.consider(model.Condition{
			FeatureIndex: a.p.FeatureIndex,
			Comparator:   complementCmp,
			Threshold:    threshold,
			NumCovered:   uint32(numComplement),
			Covered:      false,
			Start:        start,
			End:          end,
			Previous:     previous,
		}, h)
	}
}
