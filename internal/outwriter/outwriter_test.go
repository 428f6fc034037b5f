package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Output:    schema.TextOut,
		Precision: 2,
		UseColors: false,
		Width:     120,
	}
}

func sampleReport() schema.ReportResult {
	return schema.ReportResult{
		Path: "src/app.py",
		Metrics: []schema.Metric{
			{Name: "loc", Type: schema.IntType, Aggregation: schema.SumAgg, Trend: schema.Informational},
			{Name: "mi", Type: schema.FloatType, Aggregation: schema.AverageAgg, Trend: schema.AimHigh},
		},
		Rows: []schema.ReportRow{
			{
				Revision: "aaa1111222233334444",
				Author:   "Alice",
				Message:  "initial",
				Date:     1700000000,
				Values: []schema.ReportValue{
					{Metric: "loc", Value: int64(10)},
					{Metric: "mi", Value: 80.5},
				},
			},
			{
				Revision: "bbb1111222233334444",
				Author:   "Bob",
				Message:  "grow",
				Date:     1700086400,
				Values: []schema.ReportValue{
					{Metric: "loc", Value: int64(12), Delta: 2, HasDelta: true},
					{Metric: "mi", Value: 78.25, Delta: -2.25, HasDelta: true},
				},
			},
		},
	}
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeReportTable(&buf, sampleReport(), testConfig(), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "aaa11112")
	assert.Contains(t, out, "bbb11112")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "12 (+2)")
	assert.Contains(t, out, "78.25 (-2.25)")
	assert.Contains(t, out, "History of src/app.py across 2 revisions")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVResultsForReport(&buf, sampleReport(), testConfig())
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"revision", "author", "message", "date", "path", "loc", "mi"}, records[0])
	assert.Equal(t, "aaa1111222233334444", records[1][0])
	assert.Equal(t, "10", records[1][5])
	assert.Equal(t, "78.25", records[2][6])
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSONResultsForReport(&buf, sampleReport())
	require.NoError(t, err)

	var decoded schema.ReportResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "src/app.py", decoded.Path)
	require.Len(t, decoded.Rows, 2)
	assert.True(t, decoded.Rows[1].Values[0].HasDelta)
}

func TestWriteRankTable(t *testing.T) {
	rank := schema.RankResult{
		Revision: "aaa1111222233334444",
		Metric:   schema.Metric{Name: "mi", Type: schema.FloatType, Trend: schema.AimHigh},
		Entries: []schema.RankEntry{
			{Path: "src/worst.py", Value: 12.5},
			{Path: "src/ok.py", Value: 85.0},
		},
	}

	var buf bytes.Buffer
	err := writeRankTable(&buf, rank, testConfig(), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "src/worst.py")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "Ranked 2 files by mi at revision aaa11112")

	// Worst value comes before the healthy one
	assert.Less(t, strings.Index(out, "src/worst.py"), strings.Index(out, "src/ok.py"))
}

func TestWriteRevisionsTable(t *testing.T) {
	records := []schema.RevisionRecord{
		{
			CacheKey:  "deadbeef",
			Revision:  "aaa1111222233334444",
			Date:      1700000000,
			Author:    "Alice",
			Message:   "initial",
			RootLOC:   120,
			IndexedAt: time.Unix(1700001000, 0).UTC(),
		},
	}

	var buf bytes.Buffer
	err := writeRevisionsTable(&buf, records)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "aaa11112")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "Indexed 1 revisions")
}

func TestWriteMetricsTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeMetricsTable(&buf, buildMetricDefinitions())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "raw")
	assert.Contains(t, out, "loc")
	assert.Contains(t, out, "cyclomatic")
	assert.Contains(t, out, "maintainability")
	assert.Contains(t, out, "rank")
}

func TestFormatMetricValue(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "-"},
		{"int", int64(7), "7"},
		{"float", 3.14159, "3.14"},
		{"string", "B", "B"},
		{"bool", true, "true"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatMetricValue(tc.in, fmtFloat, intFmt))
		})
	}
}

func TestFormatDeltaWithoutColors(t *testing.T) {
	fmtFloat, _ := createFormatters(1)

	assert.Equal(t, "(+2.0)", formatDelta(2, schema.AimLow, fmtFloat, false))
	assert.Equal(t, "(-1.5)", formatDelta(-1.5, schema.AimHigh, fmtFloat, false))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	cfg := testConfig()

	cfg.Width = 200
	assert.Equal(t, 70, GetMaxTablePathWidth(cfg, 2))

	cfg.Width = 40
	assert.Equal(t, 15, GetMaxTablePathWidth(cfg, 2))

	cfg.Width = 100
	got := GetMaxTablePathWidth(cfg, 2)
	assert.Greater(t, got, 15)
	assert.LessOrEqual(t, got, 70)
}
