package operators

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/strata-dev/strata/schema"
)

// CyclomaticOperator measures cyclomatic complexity, the number of
// linearly independent paths through the code.
type CyclomaticOperator struct{}

var _ Operator = &CyclomaticOperator{} // Compile-time check

// Name implements the Operator interface.
func (o *CyclomaticOperator) Name() string { return "cyclomatic" }

// Description implements the Operator interface.
func (o *CyclomaticOperator) Description() string { return "Cyclomatic complexity of functions" }

// Metrics implements the Operator interface.
func (o *CyclomaticOperator) Metrics() []schema.Metric {
	return []schema.Metric{
		{Name: "complexity", Description: "Cyclomatic complexity", Type: schema.FloatType, Aggregation: schema.AverageAgg, Trend: schema.AimLow},
	}
}

// Harvest implements the Operator interface.
func (o *CyclomaticOperator) Harvest(path string, src []byte) (map[string]any, error) {
	tree, ok := parseSource(src)
	if tree != nil {
		defer tree.Close()
	}
	if !ok {
		return nil, &schema.ParseError{Path: path, Operator: o.Name()}
	}

	functions, branches := countBranches(tree.RootNode())
	return map[string]any{
		"complexity": float64(functions + branches),
	}, nil
}

// countBranches walks a syntax tree counting function definitions and
// decision points. Every function contributes a baseline path of one,
// every branch node one more.
func countBranches(root *tree_sitter.Node) (functions, branches int) {
	walk(root, func(n *tree_sitter.Node) {
		switch n.Kind() {
		case "function_definition":
			functions++
		case "if_statement", "elif_clause",
			"for_statement", "while_statement",
			"except_clause", "case_clause",
			"conditional_expression", "boolean_operator":
			branches++
		}
	})
	return functions, branches
}
