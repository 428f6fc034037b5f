package index

import (
	"testing"

	"github.com/strata-dev/strata/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricRow(path string, values map[string]any) *schema.Row {
	return &schema.Row{Revision: "r1", Path: path, PathType: schema.FilePath, Values: values}
}

func TestAggregate(t *testing.T) {
	group := []*schema.Row{
		metricRow("a.py", map[string]any{"loc": int64(10), "mi": 80.0, "rank": "A", "complexity": 3.0}),
		metricRow("b.py", map[string]any{"loc": int64(5), "mi": 8.0, "rank": "C", "complexity": 9.0}),
		metricRow("c.py", map[string]any{"loc": int64(1)}),
	}

	tests := []struct {
		name     string
		metric   schema.Metric
		expected any
		found    bool
	}{
		{
			name:     "int sum",
			metric:   schema.Metric{Name: "loc", Type: schema.IntType, Aggregation: schema.SumAgg},
			expected: int64(16),
			found:    true,
		},
		{
			name:     "float average skips missing values",
			metric:   schema.Metric{Name: "mi", Type: schema.FloatType, Aggregation: schema.AverageAgg},
			expected: 44.0,
			found:    true,
		},
		{
			name:     "worst rank",
			metric:   schema.Metric{Name: "rank", Type: schema.StrType, Aggregation: schema.WorstAgg},
			expected: "C",
			found:    true,
		},
		{
			name:     "worst aim-low float is the maximum",
			metric:   schema.Metric{Name: "complexity", Type: schema.FloatType, Aggregation: schema.WorstAgg, Trend: schema.AimLow},
			expected: 9.0,
			found:    true,
		},
		{
			name:     "worst aim-high float is the minimum",
			metric:   schema.Metric{Name: "mi", Type: schema.FloatType, Aggregation: schema.WorstAgg, Trend: schema.AimHigh},
			expected: 8.0,
			found:    true,
		},
		{
			name:   "absent metric yields nothing",
			metric: schema.Metric{Name: "ghost", Type: schema.FloatType, Aggregation: schema.AverageAgg},
			found:  false,
		},
		{
			name:   "none aggregation yields nothing",
			metric: schema.Metric{Name: "loc", Type: schema.IntType, Aggregation: schema.NoneAgg},
			found:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := aggregate(tc.metric, group)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestRollupRowsNesting(t *testing.T) {
	rev := testRevision("r1", 1700000000)
	fileRows := []*schema.Row{
		metricRow("src/pkg/a.py", map[string]any{"loc": int64(4)}),
		metricRow("src/b.py", map[string]any{"loc": int64(6)}),
		metricRow("top.py", map[string]any{"loc": int64(1)}),
	}
	metrics := []schema.Metric{{Name: "loc", Type: schema.IntType, Aggregation: schema.SumAgg}}

	rows := rollupRows(fileRows, metrics, rev)
	require.Len(t, rows, 3) // src, src/pkg, root

	assert.Equal(t, "src", rows[0].Path)
	assert.Equal(t, schema.DirectoryPath, rows[0].PathType)
	srcLOC, _ := rows[0].Int("loc")
	assert.Equal(t, int64(10), srcLOC)

	assert.Equal(t, "src/pkg", rows[1].Path)
	pkgLOC, _ := rows[1].Int("loc")
	assert.Equal(t, int64(4), pkgLOC)

	root := rows[2]
	assert.Equal(t, "", root.Path)
	assert.Equal(t, schema.RootPath, root.PathType)
	rootLOC, _ := root.Int("loc")
	assert.Equal(t, int64(11), rootLOC)
	assert.Equal(t, "r1", root.Revision)
	assert.Equal(t, int64(1700000000), root.Date)
}
