package index

import (
	"path"
	"sort"

	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
)

// rollupRows derives directory and project-level rows from one
// revision's file rows, applying each metric's aggregation rule.
// Directory rows come out sorted by path, the root row last.
func rollupRows(fileRows []*schema.Row, metrics []schema.Metric, rev *schema.Revision) []*schema.Row {
	byDir := make(map[string][]*schema.Row)
	for _, row := range fileRows {
		for dir := path.Dir(row.Path); dir != "." && dir != "/"; dir = path.Dir(dir) {
			byDir[dir] = append(byDir[dir], row)
		}
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var out []*schema.Row
	for _, dir := range dirs {
		out = append(out, rollupRow(dir, schema.DirectoryPath, byDir[dir], metrics, rev))
	}
	out = append(out, rollupRow("", schema.RootPath, fileRows, metrics, rev))
	return out
}

func rollupRow(p string, pt schema.PathType, group []*schema.Row, metrics []schema.Metric, rev *schema.Revision) *schema.Row {
	row := &schema.Row{
		Revision: rev.Key,
		Path:     p,
		PathType: pt,
		Date:     rev.Date,
		Author:   rev.AuthorName,
		Message:  rev.Message,
		Values:   make(map[string]any),
	}
	for _, m := range metrics {
		if v, ok := aggregate(m, group); ok {
			row.Values[m.Name] = v
		}
	}
	return row
}

// aggregate folds one metric over a group of rows. Rows missing the
// metric are left out; a group with no values yields nothing.
func aggregate(m schema.Metric, group []*schema.Row) (any, bool) {
	switch m.Aggregation {
	case schema.SumAgg:
		if m.Type == schema.IntType {
			var sum int64
			found := false
			for _, r := range group {
				if v, ok := r.Int(m.Name); ok {
					sum += v
					found = true
				}
			}
			return sum, found
		}
		var sum float64
		found := false
		for _, r := range group {
			if v, ok := r.Float(m.Name); ok {
				sum += v
				found = true
			}
		}
		return sum, found

	case schema.AverageAgg:
		var sum float64
		var n int
		for _, r := range group {
			if v, ok := r.Float(m.Name); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil, false
		}
		return sum / float64(n), true

	case schema.WorstAgg:
		if m.Type == schema.StrType {
			worst := ""
			found := false
			for _, r := range group {
				if v, ok := r.Str(m.Name); ok {
					worst = operators.WorstRank(worst, v)
					found = true
				}
			}
			return worst, found
		}
		var worst float64
		found := false
		for _, r := range group {
			v, ok := r.Float(m.Name)
			if !ok {
				continue
			}
			if !found || worseThan(m.Trend, v, worst) {
				worst = v
			}
			found = true
		}
		return worst, found
	}
	return nil, false
}

// worseThan reports whether a is worse than b for the metric's trend.
func worseThan(trend schema.Trend, a, b float64) bool {
	if trend == schema.AimHigh {
		return a < b
	}
	return a > b
}
