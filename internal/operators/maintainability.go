package operators

import (
	"math"
	"strings"

	"github.com/strata-dev/strata/schema"
)

// MaintainabilityOperator derives the maintainability index from
// Halstead volume, cyclomatic complexity and source line counts, plus
// a letter rank for quick triage.
type MaintainabilityOperator struct{}

var _ Operator = &MaintainabilityOperator{} // Compile-time check

// Name implements the Operator interface.
func (o *MaintainabilityOperator) Name() string { return "maintainability" }

// Description implements the Operator interface.
func (o *MaintainabilityOperator) Description() string { return "Maintainability index and rank" }

// Metrics implements the Operator interface.
func (o *MaintainabilityOperator) Metrics() []schema.Metric {
	return []schema.Metric{
		{Name: "mi", Description: "Maintainability index (0-100)", Type: schema.FloatType, Aggregation: schema.AverageAgg, Trend: schema.AimHigh},
		{Name: "rank", Description: "Maintainability rank (A-C)", Type: schema.StrType, Aggregation: schema.WorstAgg, Trend: schema.AimHigh},
	}
}

// Harvest implements the Operator interface.
func (o *MaintainabilityOperator) Harvest(path string, src []byte) (map[string]any, error) {
	tree, ok := parseSource(src)
	if tree != nil {
		defer tree.Close()
	}
	if !ok {
		return nil, &schema.ParseError{Path: path, Operator: o.Name()}
	}

	root := tree.RootNode()
	h1, h2, n1, n2 := halsteadCounts(root, src)
	volume, _, _ := halsteadDerived(h1, h2, n1, n2)
	functions, branches := countBranches(root)
	sloc := sourceLines(src)

	mi := maintainabilityIndex(volume, float64(functions+branches), float64(sloc))
	return map[string]any{
		"mi":   mi,
		"rank": RankOf(mi),
	}, nil
}

// maintainabilityIndex is the classic SEI formula rescaled to 0-100.
func maintainabilityIndex(volume, complexity, sloc float64) float64 {
	if sloc == 0 {
		return 100
	}
	mi := 171 - 5.2*safeLog(volume) - 0.23*complexity - 16.2*safeLog(sloc)
	return math.Max(0, mi*100/171)
}

// RankOf buckets a maintainability index into a letter rank.
func RankOf(mi float64) string {
	switch {
	case mi >= 20:
		return "A"
	case mi >= 10:
		return "B"
	default:
		return "C"
	}
}

// WorstRank returns the worse of two letter ranks. Empty strings lose
// to any real rank.
func WorstRank(a, b string) string {
	if strings.Compare(a, b) >= 0 {
		return a
	}
	return b
}

func safeLog(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log(v)
}

// sourceLines counts non-blank, non-comment lines without parsing.
func sourceLines(src []byte) int64 {
	var n int64
	for line := range strings.Lines(string(src)) {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			n++
		}
	}
	return n
}
