// Package verify implements component C16: an independent re-check of a
// committed rule's reported coverage, built from raw feature values
// through a boolean expression rather than from the coverage mask the
// induction core trusted while growing the rule. This backs testable
// property 4 (and SPEC_FULL.md's additional property 10): C8/C7's
// numCovered must agree with a from-scratch recount.
package verify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"rockrules.io/syndrome/model"
)

// FeatureSource exposes the raw (possibly sparse) feature values Recount
// evaluates conditions against, independent of the cached, filtered
// vectors the induction core reads through iface.FeatureMatrix.
type FeatureSource interface {
	NumRows() int
	// Value returns feature j's value for example i, and whether it is
	// present. Recount evaluates every absent value as 0, for numeric and
	// nominal conditions alike.
	Value(i uint32, j int) (value float32, present bool)
}

// Recount rebuilds rule's condition conjunction as a govaluate boolean
// expression and evaluates it against every example in features,
// returning the count of examples for which it holds.
func Recount(rule *model.Rule, features FeatureSource) (int, error) {
	if len(rule.Conditions) == 0 {
		return features.NumRows(), nil
	}

	exprStr, err := buildExpression(rule.Conditions)
	if err != nil {
		return 0, err
	}
	expr, err := govaluate.NewEvaluableExpression(exprStr)
	if err != nil {
		return 0, fmt.Errorf("verify: compiling expression %q: %w", exprStr, err)
	}

	count := 0
	for i := 0; i < features.NumRows(); i++ {
		params := make(map[string]interface{}, len(rule.Conditions))
		for _, cond := range rule.Conditions {
			name := featureVar(cond.FeatureIndex)
			if _, ok := params[name]; ok {
				continue
			}
			v, present := features.Value(uint32(i), cond.FeatureIndex)
			if !present {
				v = 0
			}
			params[name] = float64(v)
		}
		result, err := expr.Evaluate(params)
		if err != nil {
			return 0, fmt.Errorf("verify: evaluating example %d: %w", i, err)
		}
		if b, ok := result.(bool); ok && b {
			count++
		}
	}
	return count, nil
}

func featureVar(j int) string { return "x" + strconv.Itoa(j) }

func buildExpression(conditions []model.Condition) (string, error) {
	clauses := make([]string, 0, len(conditions))
	for _, cond := range conditions {
		op, err := operatorString(cond.Comparator)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, fmt.Sprintf("(%s %s %v)", featureVar(cond.FeatureIndex), op, cond.Threshold))
	}
	return strings.Join(clauses, " && "), nil
}

func operatorString(c model.Comparator) (string, error) {
	switch c {
	case model.LEQ:
		return "<=", nil
	case model.GR:
		return ">", nil
	case model.EQ:
		return "==", nil
	case model.NEQ:
		return "!=", nil
	default:
		return "", fmt.Errorf("verify: unknown comparator %v", c)
	}
}
