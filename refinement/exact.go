package refinement

import (
	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/featurevec"
	"rockrules.io/syndrome/head"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/statistics"
)

// Params configures one call to Search: which feature, whether it is
// nominal, the minimum coverage a candidate must meet, and the two
// compile-time-style operator gates from spec.md §4.4/§6.
type Params struct {
	FeatureIndex int
	Nominal      bool
	MinCoverage  int
	UseLEQ       bool
	UseNEQ       bool
	// TotalCovered is the number of examples currently covered by the
	// partial rule (present + missing + implicit sparse zero), used to
	// detect whether a sparse-zero bridge (phase C) exists.
	TotalCovered int
}

// weightOf reads example i's weight, defaulting to 1 if the vector is nil
// (callers always pass a real vector, but this keeps Search total).
func weightOf(w container.WeightVector, i uint32) float64 {
	if w == nil {
		return 1
	}
	return float64(w[i])
}

// Search sweeps vec (the feature's currently-filtered, sorted vector) and
// returns the best refinement found across every phase, or a Refinement
// with a nil Head if nothing improved on currentBestHead. This implements
// component C8 of spec.md §4.4.
func Search(p Params, vec *featurevec.Vector, weights container.WeightVector, stats *statistics.LabelWise, currentBestHead *model.Head) *Refinement {
	groundTruth := stats.GroundTruth()
	subset := stats.CreateSubset()
	for _, m := range vec.MissingSlice() {
		subset.AddToMissing(m, weightOf(weights, m))
	}

	hr := head.NewRefiner()
	var best *Refinement
	consider := func(cond model.Condition, h *model.Head) {
		if h == nil || h == currentBestHead {
			return
		}
		cand := &Refinement{Condition: cond, Head: h}
		if best == nil || cand.IsBetterThan(best) {
			best = cand
		}
	}

	n := len(vec.Pairs)
	negEnd := vec.FirstNegativeIndex() // [0, negEnd) are the negative-valued pairs

	// Phase A: ascending sweep over the negative-value prefix.
	lastNegIdx := -1
	if negEnd > 0 {
		lastNegIdx = sweep(sweepArgs{
			pairs:       vec.Pairs[:negEnd],
			offset:      0,
			ascending:   true,
			weights:     weights,
			subset:      subset,
			hr:          hr,
			groundTruth: groundTruth,
			currentBest: currentBestHead,
			p:           p,
			consider:    consider,
		})
	}

	// Phase B: descending sweep over the non-negative suffix.
	if n > negEnd {
		sweep(sweepArgs{
			pairs:       vec.Pairs[negEnd:],
			offset:      negEnd,
			ascending:   false,
			weights:     weights,
			subset:      subset,
			hr:          hr,
			groundTruth: groundTruth,
			currentBest: currentBestHead,
			p:           p,
			consider:    consider,
		})
	}

	numMissing := int(vec.Missing.GetCardinality())
	numIterated := n + numMissing
	numSparseZero := p.TotalCovered - numIterated

	// Phase C: sparse-zero bridge. Every example iterated in A+B plus
	// every missing example accounts for numIterated; anything left over
	// has an implicit feature value of exactly zero.
	if numSparseZero > 0 {
		subset.ResetSubset()
		threshold := float32(0)
		if !p.Nominal {
			// f > prev/2, where prev is the value bordering zero from
			// below if one exists, else the smallest non-negative value.
			prev := float32(0)
			if negEnd > 0 {
				prev = vec.Pairs[negEnd-1].Value
			} else if n > negEnd {
				prev = vec.Pairs[negEnd].Value
			}
			threshold = prev / 2
		}
		zeroCovered := model.Comparator(model.NEQ)
		zeroComplement := model.Comparator(model.EQ)
		if !p.Nominal {
			zeroCovered = model.GR
			zeroComplement = model.LEQ
		}
		if p.Nominal && p.UseNEQ || !p.Nominal {
			h := hr.FindHead(currentBestHead, subset, groundTruth, false, true)
			if p.TotalCovered-numSparseZero >= p.MinCoverage {
				consider(model.Condition{
					FeatureIndex: p.FeatureIndex,
					Comparator:   zeroCovered,
					Threshold:    threshold,
					NumCovered:   uint32(p.TotalCovered - numSparseZero),
					Covered:      false,
					Start:        0,
					End:          n,
					Previous:     n,
				}, h)
			}
		}
		if numSparseZero >= p.MinCoverage {
			h := hr.FindHead(currentBestHead, subset, groundTruth, true, true)
			consider(model.Condition{
				FeatureIndex: p.FeatureIndex,
				Comparator:   zeroComplement,
				Threshold:    threshold,
				NumCovered:   uint32(numSparseZero),
				Covered:      false,
				Start:        0,
				End:          n,
				Previous:     n,
			}, h)
		}
	}

	// Phase D: numerical-only bridge between negatives and non-negatives.
	if !p.Nominal && negEnd > 0 && n > negEnd {
		lastNeg := vec.Pairs[negEnd-1]
		firstNonNeg := vec.Pairs[negEnd]
		threshold := (lastNeg.Value + firstNonNeg.Value) / 2
		if numSparseZero > 0 {
			threshold = lastNeg.Value / 2
		}
		subset.ResetSubset()
		numNegCovered := lastNegIdx + 1
		if numNegCovered < 0 {
			numNegCovered = 0
		}
		// Re-accumulate the negative side for this bridge's own LEQ/GR
		// evaluation: everything strictly to the left of negEnd.
		for i := 0; i < negEnd; i++ {
			ex := vec.Pairs[i].ExampleIndex
			if weightOf(weights, ex) != 0 {
				subset.AddToSubset(ex, weightOf(weights, ex))
			}
		}
		if p.UseLEQ && negEnd >= p.MinCoverage {
			h := hr.FindHead(currentBestHead, subset, groundTruth, false, false)
			consider(model.Condition{
				FeatureIndex: p.FeatureIndex,
				Comparator:   model.LEQ,
				Threshold:    threshold,
				NumCovered:   uint32(negEnd),
				Covered:      true,
				Start:        0,
				End:          negEnd,
				Previous:     negEnd,
			}, h)
		}
		if p.TotalCovered-negEnd >= p.MinCoverage {
			h := hr.FindHead(currentBestHead, subset, groundTruth, true, false)
			consider(model.Condition{
				FeatureIndex: p.FeatureIndex,
				Comparator:   model.GR,
				Threshold:    threshold,
				NumCovered:   uint32(p.TotalCovered - negEnd),
				Covered:      false,
				Start:        0,
				End:          negEnd,
				Previous:     negEnd,
			}, h)
		}
	}

	if best == nil {
		return &Refinement{}
	}
	return best
}
