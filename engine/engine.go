// Package engine implements component C10: the sequential model
// induction driver that wires the external collaborators from spec.md §6
// to statistics (C4), thresholds (C7), and the top-down induction loop
// (C9), producing a final rule model.
package engine

import (
	"math"

	"rockrules.io/syndrome/evaluation"
	"rockrules.io/syndrome/iface"
	"rockrules.io/syndrome/induction"
	"rockrules.io/syndrome/internal/config"
	"rockrules.io/syndrome/internal/logx"
	"rockrules.io/syndrome/model"
	"rockrules.io/syndrome/statistics"
	"rockrules.io/syndrome/thresholds"
)

// Deps bundles the external collaborators spec.md §6 defines that the
// driver consumes, plus a logger. defaultcollab and sampling supply
// concrete implementations of all of them except the optional Visitor;
// the logger comes from internal/logx.
type Deps struct {
	LabelMatrix     iface.LabelMatrix
	FeatureMatrix   iface.FeatureMatrix
	NominalMask     iface.NominalMask
	RNG             iface.RNG
	FeatureSampler  iface.FeatureSubSampler
	InstanceSampler iface.InstanceSubSampler
	Stopping        iface.StoppingCriterion
	Visitor         iface.PredictionVisitor // optional
	Log             *logx.Logger
}

// Run executes component C10's algorithm end to end and returns the
// finished rule list.
func Run(deps Deps, cfg *config.Config, progress *Progress) (*model.RuleList, error) {
	if err := cfg.Validate(deps.LabelMatrix.NumRows(), deps.LabelMatrix.NumTimeSlots()); err != nil {
		return nil, err
	}

	stats, err := statistics.New(deps.LabelMatrix)
	if err != nil {
		return nil, err
	}
	th := thresholds.New(deps.FeatureMatrix, deps.NominalMask)
	builder := model.NewBuilder()

	defaultPred := make([]uint32, stats.NumSlots())
	currentQuality := math.Inf(1)
	if score, ok := evaluation.Score(defaultPred, stats.GroundTruth()); ok {
		currentQuality = score
		builder.SetDefaultRule(model.Head{Prediction: defaultPred, QualityScore: score})
	}

	progress.Start()
	defer progress.Finish()

	numUsedRules := 0
	latched := false
	numRules := 0

	for {
		decision, k := deps.Stopping.Test(numRules)
		if decision == iface.ForceStop {
			numUsedRules = k
			break
		}
		if decision == iface.StoreStop && !latched {
			numUsedRules = k
			latched = true
		}

		weights := deps.InstanceSampler.SubSample(deps.RNG, stats.NumExamples())
		minCoverage := int(math.Floor(cfg.MinSupport * float64(stats.NumExamples())))
		result := induction.InduceRule(th, stats, weights, deps.NominalMask, deps.FeatureSampler, deps.RNG, induction.Params{
			MaxConditions: cfg.MaxConditions,
			MinCoverage:   minCoverage,
			UseLEQ:        cfg.UseLEQ,
			UseNEQ:        cfg.UseNEQ,
			NumThreads:    cfg.NumThreads,
		}, deps.Log)

		if result.Head == nil || result.Head.QualityScore >= currentQuality {
			break
		}

		result.Subset.ApplyPrediction()
		builder.AddRule(result.Conditions, *result.Head)
		currentQuality = result.Head.QualityScore
		numRules++
		progress.RecordRule(currentQuality)
		if deps.Visitor != nil {
			deps.Visitor.VisitPrediction(stats.Prediction())
		}
		deps.Log.Infof("committed rule %d: %d conditions, quality=%.6f", numRules, len(result.Conditions), currentQuality)
	}

	if deps.Visitor != nil {
		deps.Visitor.VisitGroundTruth(stats.GroundTruth())
	}
	return builder.Build(numUsedRules), nil
}
