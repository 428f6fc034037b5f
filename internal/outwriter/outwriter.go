// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteBuildStats prints the summary of a finished build run.
func (ow *OutWriter) WriteBuildStats(stats schema.BuildStats, cfg *contract.Config, duration time.Duration) error {
	return PrintBuildStats(stats, cfg, duration)
}

// WriteReport prints the metric history of a path using the configured output format.
func (ow *OutWriter) WriteReport(report schema.ReportResult, cfg *contract.Config, duration time.Duration) error {
	return PrintReportResults(report, cfg, duration)
}

// WriteRank prints ranked per-file metric values using the configured output format.
func (ow *OutWriter) WriteRank(rank schema.RankResult, cfg *contract.Config, duration time.Duration) error {
	return PrintRankResults(rank, cfg, duration)
}

// WriteRevisions prints the indexed revision listing using the configured output format.
func (ow *OutWriter) WriteRevisions(records []schema.RevisionRecord, cfg *contract.Config) error {
	return PrintRevisionResults(records, cfg)
}

// WriteMetrics prints the operator and metric definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return PrintMetricDefinitions(cfg)
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// formatMetricValue renders one stored metric value for display.
// A nil value means the metric was not computed for this row.
func formatMetricValue(v any, fmtFloat func(float64) string, intFmt string) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case int64:
		return fmt.Sprintf(intFmt, val)
	case float64:
		return fmtFloat(val)
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// formatDelta renders a numeric change against the previous revision,
// colored by whether the metric trend considers it an improvement.
func formatDelta(delta float64, trend schema.Trend, fmtFloat func(float64) string, useColors bool) string {
	sign := "+"
	if delta < 0 {
		sign = ""
	}
	text := fmt.Sprintf("(%s%s)", sign, fmtFloat(delta))
	if !useColors || delta == 0 || trend == schema.Informational {
		return text
	}

	improved := delta < 0
	if trend == schema.AimHigh {
		improved = delta > 0
	}
	if improved {
		return contract.GoodColor.Sprint(text)
	}
	return contract.BadColor.Sprint(text)
}
