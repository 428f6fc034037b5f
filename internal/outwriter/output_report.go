package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/schema"
)

// PrintReportResults outputs the metric history of a single path, dispatching
// on the configured output format.
func PrintReportResults(report schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForReport(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForReport(w, report, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(w, report, cfg, duration)
		}, "Wrote text")
	}
}

// writeReportTable writes the history as a human-readable table,
// one row per revision, one column per requested metric.
func writeReportTable(w io.Writer, report schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	headers := []string{"Revision", "Author", "Date"}
	for _, m := range report.Metrics {
		headers = append(headers, m.Name)
	}
	table.Header(headers)

	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range report.Rows {
		row := []string{
			shortRevision(r.Revision),
			r.Author,
			time.Unix(r.Date, 0).UTC().Format(time.DateOnly),
		}
		for i, v := range r.Values {
			cell := formatMetricCell(v, report.Metrics[i], fmtFloat, intFmt, cfg.UseColors)
			row = append(row, cell)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "History of %s across %d revisions\n", displayPath(report.Path), len(report.Rows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Report completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// formatMetricCell renders a single value cell with its change against the
// previous revision appended when available.
func formatMetricCell(v schema.ReportValue, m schema.Metric, fmtFloat func(float64) string, intFmt string, useColors bool) string {
	text := formatMetricValue(v.Value, fmtFloat, intFmt)
	if useColors && m.Name == "rank" {
		if s, ok := v.Value.(string); ok {
			text = contract.GetColorRank(s)
		}
	}
	if !v.HasDelta {
		return text
	}
	deltaFmt := fmtFloat
	if m.Type == schema.IntType {
		deltaFmt = func(f float64) string { return strconv.FormatInt(int64(f), 10) }
	}
	return text + " " + formatDelta(v.Delta, m.Trend, deltaFmt, useColors)
}

// writeCSVResultsForReport writes the history in CSV format.
func writeCSVResultsForReport(w io.Writer, report schema.ReportResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	header := []string{"revision", "author", "message", "date", "path"}
	for _, m := range report.Metrics {
		header = append(header, m.Name)
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range report.Rows {
			rec := []string{
				r.Revision,
				r.Author,
				r.Message,
				time.Unix(r.Date, 0).UTC().Format(contract.DateTimeFormat),
				report.Path,
			}
			for _, v := range r.Values {
				if v.Value == nil {
					rec = append(rec, "")
					continue
				}
				rec = append(rec, formatMetricValue(v.Value, fmtFloat, intFmt))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForReport writes the history in JSON format.
func writeJSONResultsForReport(w io.Writer, report schema.ReportResult) error {
	return writeJSON(w, report)
}

// shortRevision abbreviates a revision key for table display.
func shortRevision(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}

// displayPath maps the empty root path to a visible marker.
func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
