package operators

import (
	"math"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/strata-dev/strata/schema"
)

// HalsteadOperator measures Halstead complexity: vocabulary and usage
// counts of operators and operands, and the effort figures derived
// from them.
type HalsteadOperator struct{}

var _ Operator = &HalsteadOperator{} // Compile-time check

// Name implements the Operator interface.
func (o *HalsteadOperator) Name() string { return "halstead" }

// Description implements the Operator interface.
func (o *HalsteadOperator) Description() string { return "Halstead vocabulary, volume and effort" }

// Metrics implements the Operator interface.
func (o *HalsteadOperator) Metrics() []schema.Metric {
	return []schema.Metric{
		{Name: "h1", Description: "Distinct operators", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "h2", Description: "Distinct operands", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "N1", Description: "Total operators", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "N2", Description: "Total operands", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "vocabulary", Description: "Distinct operators plus operands", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "length", Description: "Total operators plus operands", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "volume", Description: "Program volume", Type: schema.FloatType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "difficulty", Description: "Program difficulty", Type: schema.FloatType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
		{Name: "effort", Description: "Implementation effort", Type: schema.FloatType, Aggregation: schema.SumAgg, Trend: schema.AimLow},
	}
}

// Harvest implements the Operator interface.
func (o *HalsteadOperator) Harvest(path string, src []byte) (map[string]any, error) {
	tree, ok := parseSource(src)
	if tree != nil {
		defer tree.Close()
	}
	if !ok {
		return nil, &schema.ParseError{Path: path, Operator: o.Name()}
	}

	h1, h2, n1, n2 := halsteadCounts(tree.RootNode(), src)
	vocabulary := h1 + h2
	length := n1 + n2
	volume, difficulty, effort := halsteadDerived(h1, h2, n1, n2)

	return map[string]any{
		"h1":         h1,
		"h2":         h2,
		"N1":         n1,
		"N2":         n2,
		"vocabulary": vocabulary,
		"length":     length,
		"volume":     volume,
		"difficulty": difficulty,
		"effort":     effort,
	}, nil
}

// halsteadCounts classifies every leaf token: anonymous leaves are
// punctuation and keywords (operators), named leaves are identifiers
// and literals (operands). Comments count as neither.
func halsteadCounts(root *tree_sitter.Node, src []byte) (h1, h2, n1, n2 int64) {
	operators := make(map[string]struct{})
	operands := make(map[string]struct{})

	walk(root, func(n *tree_sitter.Node) {
		if n.ChildCount() > 0 || n.Kind() == "comment" {
			return
		}
		text := string(src[n.StartByte():n.EndByte()])
		if text == "" {
			return
		}
		if n.IsNamed() {
			operands[text] = struct{}{}
			n2++
		} else {
			operators[text] = struct{}{}
			n1++
		}
	})

	return int64(len(operators)), int64(len(operands)), n1, n2
}

// halsteadDerived computes the classic derived figures, guarding the
// degenerate empty-program cases.
func halsteadDerived(h1, h2, n1, n2 int64) (volume, difficulty, effort float64) {
	vocabulary := float64(h1 + h2)
	length := float64(n1 + n2)
	if vocabulary > 0 {
		volume = length * math.Log2(vocabulary)
	}
	if h2 > 0 {
		difficulty = float64(h1) / 2 * float64(n2) / float64(h2)
	}
	effort = difficulty * volume
	return volume, difficulty, effort
}
