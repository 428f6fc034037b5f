package operators

import (
	"strings"

	"github.com/strata-dev/strata/schema"
)

// RawOperator counts line-oriented metrics. It works on raw text and
// never parses, so it succeeds even on files full of syntax errors.
type RawOperator struct{}

var _ Operator = &RawOperator{} // Compile-time check

// Name implements the Operator interface.
func (o *RawOperator) Name() string { return "raw" }

// Description implements the Operator interface.
func (o *RawOperator) Description() string { return "Line counts: code, comments, blanks" }

// Metrics implements the Operator interface.
func (o *RawOperator) Metrics() []schema.Metric {
	return []schema.Metric{
		{Name: "loc", Description: "Lines of code, total", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
		{Name: "lloc", Description: "Logical lines of code", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
		{Name: "sloc", Description: "Source lines of code", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
		{Name: "comments", Description: "Lines containing comments", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
		{Name: "multi", Description: "Lines inside multi-line strings", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
		{Name: "blank", Description: "Blank lines", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
		{Name: "single_comments", Description: "Whole-line comments", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
	}
}

// Harvest implements the Operator interface.
func (o *RawOperator) Harvest(_ string, src []byte) (map[string]any, error) {
	var loc, lloc, sloc, comments, multi, blank, single int64

	inMulti := false
	var multiDelim string
	for line := range strings.Lines(string(src)) {
		line = strings.TrimRight(line, "\n")
		trimmed := strings.TrimSpace(line)
		loc++

		if inMulti {
			multi++
			if strings.Contains(trimmed, multiDelim) {
				inMulti = false
			}
			continue
		}

		switch {
		case trimmed == "":
			blank++
		case strings.HasPrefix(trimmed, "#"):
			single++
			comments++
		case strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''"):
			// Standalone string statement, usually a docstring.
			multi++
			delim := trimmed[:3]
			rest := trimmed[3:]
			if !strings.Contains(rest, delim) {
				inMulti = true
				multiDelim = delim
			}
		default:
			sloc++
			semis, hasComment := scanLine(line)
			lloc += 1 + semis
			if hasComment {
				comments++
			}
		}
	}

	return map[string]any{
		"loc":             loc,
		"lloc":            lloc,
		"sloc":            sloc,
		"comments":        comments,
		"multi":           multi,
		"blank":           blank,
		"single_comments": single,
	}, nil
}

// scanLine counts statement separators on one code line and detects a
// trailing comment. Quoted spans are skipped so that '#' or ';' inside
// string literals are not miscounted.
func scanLine(line string) (semis int64, hasComment bool) {
	var inStr byte
	dangling := false // trailing ';' does not start a new statement
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inStr != 0:
			if c == '\\' {
				i++
			} else if c == inStr {
				inStr = 0
			}
		case c == '\'' || c == '"':
			inStr = c
			dangling = false
		case c == '#':
			if dangling {
				semis--
			}
			return semis, true
		case c == ';':
			semis++
			dangling = true
		default:
			if c != ' ' && c != '\t' {
				dangling = false
			}
		}
	}
	if dangling {
		semis--
	}
	return semis, false
}
