// Package model holds component C11: the serializable rule-model
// representation (conditions, rules, and the rule-list builder) that the
// induction core emits and that internal/modelstore persists verbatim via
// msgpack.
package model

// Comparator names the four condition operator forms spec.md §3 allows.
// LEQ/GR apply to numerical features, EQ/NEQ to nominal ones.
type Comparator uint8

const (
	LEQ Comparator = iota
	GR
	EQ
	NEQ
)

func (c Comparator) String() string {
	switch c {
	case LEQ:
		return "<="
	case GR:
		return ">"
	case EQ:
		return "=="
	case NEQ:
		return "!="
	default:
		return "?"
	}
}

// Condition is a single-feature boolean test, plus the span bookkeeping
// the exact refinement search (C8) and the thresholds subsystem (C7) need
// to filter the feature's cached vector once the condition commits.
//
// Covered=false means the condition selects the complement of [Start, End)
// in the feature's sorted vector; Covered=true means it selects [Start,End)
// directly. Previous records the position of the next differently-valued
// example beyond the span's moving boundary; the zero-weight split
// adjustment (C7) walks the gap between that boundary and Previous, and
// the comparison of Previous against End gives the sweep direction.
type Condition struct {
	FeatureIndex int        `msgpack:"featureIndex"`
	Comparator   Comparator `msgpack:"comparator"`
	Threshold    float32    `msgpack:"threshold"`
	NumCovered   uint32     `msgpack:"numCovered"`
	Covered      bool       `msgpack:"covered"`
	Start        int        `msgpack:"start"`
	End          int        `msgpack:"end"`
	Previous     int        `msgpack:"previous"`
}

// Head is the per-rule prediction attached to a committed (or candidate)
// rule: the covered-prediction counts over every time slot, plus the
// overall quality score spec.md §4.2 computes from that vector. Lower
// QualityScore is better; ties favor the earlier-discovered candidate
// (decided by the caller, not by this struct).
type Head struct {
	Prediction   []uint32 `msgpack:"prediction"`
	QualityScore float64  `msgpack:"qualityScore"`
}

// Rule is an ordered conjunction of Conditions plus the Head it predicts.
// An empty Conditions list is the default rule.
type Rule struct {
	Conditions []Condition `msgpack:"conditions"`
	Head       Head        `msgpack:"head"`
}

// RuleList is the ordered output of a full induction run: the default
// rule, if any, first, followed by every committed rule in commit order.
type RuleList struct {
	DefaultRule *Rule  `msgpack:"defaultRule"`
	Rules       []Rule `msgpack:"rules"`
}

// Builder accumulates AddRule calls during induction and assembles the
// final RuleList on Build. It implements iface.ModelBuilder.
type Builder struct {
	defaultRule *Rule
	rules       []Rule
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetDefaultRule installs the empty-body default rule, with the given
// head, emitted before top-down induction begins.
func (b *Builder) SetDefaultRule(head Head) {
	b.defaultRule = &Rule{Conditions: nil, Head: head}
}

// AddRule appends a committed rule in commit order.
func (b *Builder) AddRule(conditions []Condition, head Head) {
	cp := make([]Condition, len(conditions))
	copy(cp, conditions)
	b.rules = append(b.rules, Rule{Conditions: cp, Head: head})
}

// Build assembles the final rule list. numUsedRules == 0 means "use all
// committed rules"; otherwise only the first numUsedRules are kept, per
// the STORE_STOP latching semantics in spec.md §4.7/§6.
func (b *Builder) Build(numUsedRules int) *RuleList {
	rules := b.rules
	if numUsedRules > 0 && numUsedRules < len(rules) {
		rules = rules[:numUsedRules]
	}
	out := &RuleList{Rules: make([]Rule, len(rules))}
	copy(out.Rules, rules)
	if b.defaultRule != nil {
		dr := *b.defaultRule
		out.DefaultRule = &dr
	}
	return out
}
