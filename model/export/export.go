// Package export implements component C15: rendering a committed
// RuleList as a Graphviz DOT digraph (showing the sequential-covering
// commit order as a chain) and as a plain-text table, mirroring the
// teacher's own (commented-out) ToSimpleGraph export in
// decision_tree/procedure.go.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/jedib0t/go-pretty/v6/table"

	"rockrules.io/syndrome/model"
)

// ToDOT builds a Graphviz digraph with one node per rule (the default
// rule, if present, first) labeled with its condition conjunction and
// head quality, and edges chaining them in commit order to show the
// order sequential covering applies them in.
func ToDOT(list *model.RuleList) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("rules"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	var names []string
	addNode := func(name string, rule model.Rule) error {
		label := fmt.Sprintf("\"%s\"", describeRule(rule))
		return g.AddNode("rules", name, map[string]string{"label": label})
	}

	if list.DefaultRule != nil {
		if err := addNode("default", *list.DefaultRule); err != nil {
			return "", err
		}
		names = append(names, "default")
	}
	for i, rule := range list.Rules {
		name := "rule" + strconv.Itoa(i)
		if err := addNode(name, rule); err != nil {
			return "", err
		}
		names = append(names, name)
	}

	for i := 1; i < len(names); i++ {
		if err := g.AddEdge(names[i-1], names[i], true, nil); err != nil {
			return "", err
		}
	}

	return g.String(), nil
}

// ToTable renders list as a plain-text table with columns #, Condition(s),
// NumCovered, Quality.
func ToTable(list *model.RuleList) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Condition(s)", "NumCovered", "Quality"})

	if list.DefaultRule != nil {
		t.AppendRow(table.Row{"default", describeConditions(list.DefaultRule.Conditions), numCovered(*list.DefaultRule), list.DefaultRule.Head.QualityScore})
	}
	for i, rule := range list.Rules {
		t.AppendRow(table.Row{i, describeConditions(rule.Conditions), numCovered(rule), rule.Head.QualityScore})
	}
	return t.Render()
}

func describeRule(rule model.Rule) string {
	return fmt.Sprintf("%s | q=%.4f", describeConditions(rule.Conditions), rule.Head.QualityScore)
}

func describeConditions(conditions []model.Condition) string {
	if len(conditions) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = fmt.Sprintf("x%d %s %v", c.FeatureIndex, c.Comparator, c.Threshold)
	}
	return strings.Join(parts, " AND ")
}

func numCovered(rule model.Rule) uint32 {
	if len(rule.Conditions) == 0 {
		return 0
	}
	return rule.Conditions[len(rule.Conditions)-1].NumCovered
}
