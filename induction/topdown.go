// Package induction implements component C9: the top-down greedy
// refinement loop that grows one rule by repeatedly finding, across a
// sampled set of candidate features, the single best-scoring condition to
// add next, until no candidate improves on the rule's current quality or
// maxConditions is reached.
package induction

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/zeromicro/go-zero/core/threading"

	"rockrules.io/syndrome/container"
	"rockrules.io/syndrome/iface"
	"rockrules.io/syndrome/internal/logx"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/refinement"
	"rockrules.io/syndrome/statistics"
	"rockrules.io/syndrome/thresholds"
)

// Params configures one call to InduceRule: the knobs spec.md §4.6/§6
// surfaces as driver-level configuration rather than per-feature search
// state (those live in refinement.Params, built fresh for each candidate
// feature from these).
type Params struct {
	MaxConditions int // -1 means unbounded
	MinCoverage   int
	UseLEQ        bool
	UseNEQ        bool
	NumThreads    int
}

// Result is one grown rule: its conjunction of conditions in commit
// order, and the head the last committed condition produced. A Result
// with no Conditions and a nil Head means no refinement ever improved on
// the starting (empty-rule) quality. Subset is the thresholds handle
// InduceRule grew the rule against; the driver (C10) calls
// Subset.ApplyPrediction once it decides to commit Head, and otherwise
// simply discards it: growth never commits coverage on its own.
type Result struct {
	Conditions []model.Condition
	Head       *model.Head
	Subset     *thresholds.Subset
}

// InduceRule runs component C9's algorithm: repeated rounds of sampling
// candidate features, searching each one in parallel via C8, and
// committing the single best refinement found, until a round finds
// nothing better or maxConditions is reached.
func InduceRule(
	th *thresholds.Thresholds,
	stats *statistics.LabelWise,
	weights container.WeightVector,
	nominal iface.NominalMask,
	featureSampler iface.FeatureSubSampler,
	rng iface.RNG,
	p Params,
	log *logx.Logger,
) Result {
	subset := th.CreateSubset(stats, weights)

	var conditions []model.Condition
	var bestHead *model.Head
	var bestRefinement *refinement.Refinement
	totalCovered := weights.NumNonZeroWeights()

	numConditions := 0
	for {
		if p.MaxConditions >= 0 && numConditions >= p.MaxConditions {
			break
		}
		featureIndices := featureSampler.SubSample(rng)
		if len(featureIndices) == 0 {
			break
		}

		results := parallelSearch(subset, stats, weights, nominal, featureIndices, p, bestHead, totalCovered, log)

		foundRefinement := false
		for _, cand := range results {
			if cand == nil {
				continue
			}
			if bestRefinement == nil || cand.IsBetterThan(bestRefinement) {
				bestRefinement = cand
				foundRefinement = true
			}
		}
		if !foundRefinement {
			break
		}

		bestHead = bestRefinement.Head
		conditions = append(conditions, bestRefinement.Condition)
		totalCovered = int(bestRefinement.Condition.NumCovered)
		subset.FilterThresholds(bestRefinement)
		numConditions++
	}

	return Result{Conditions: conditions, Head: bestHead, Subset: subset}
}

// parallelSearch runs refinement.Search for every feature in
// featureIndices concurrently, bounded by p.NumThreads, and returns the
// per-feature results in featureIndices' own order, the deterministic
// sequential-reduction order spec.md §5 requires regardless of goroutine
// completion order.
func parallelSearch(
	subset *thresholds.Subset,
	stats *statistics.LabelWise,
	weights container.WeightVector,
	nominal iface.NominalMask,
	featureIndices container.IndexVector,
	p Params,
	bestHead *model.Head,
	totalCovered int,
	log *logx.Logger,
) []*refinement.Refinement {
	results := make([]*refinement.Refinement, len(featureIndices))
	sem := make(chan struct{}, maxThreads(p.NumThreads))
	var wg sync.WaitGroup
	ctx := context.Background()

	for pos, j := range featureIndices {
		pos, j := pos, j
		wg.Add(1)
		sem <- struct{}{}
		threading.GoSafeCtx(ctx, func() {
			defer func() {
				<-sem
				wg.Done()
				if r := recover(); r != nil {
					log.Errorf("recover.err:%v, stack:%v", r, string(debug.Stack()))
				}
			}()
			results[pos] = searchOneFeature(subset, stats, weights, nominal, int(j), p, bestHead, totalCovered)
		})
	}
	wg.Wait()
	return results
}

func searchOneFeature(
	subset *thresholds.Subset,
	stats *statistics.LabelWise,
	weights container.WeightVector,
	nominal iface.NominalMask,
	j int,
	p Params,
	bestHead *model.Head,
	totalCovered int,
) *refinement.Refinement {
	vec := subset.FilteredVector(j)
	params := refinement.Params{
		FeatureIndex: j,
		Nominal:      nominal.IsNominal(j),
		MinCoverage:  p.MinCoverage,
		UseLEQ:       p.UseLEQ,
		UseNEQ:       p.UseNEQ,
		TotalCovered: totalCovered,
	}
	cand := refinement.Search(params, vec, weights, stats, bestHead)
	if cand == nil || cand.Head == nil {
		return nil
	}
	return cand
}

func maxThreads(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
