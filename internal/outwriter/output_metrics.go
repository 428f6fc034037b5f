package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
)

// metricDefinition is the JSON/CSV render model of one metric.
type metricDefinition struct {
	Operator    string `json:"operator"`
	Metric      string `json:"metric"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Aggregation string `json:"aggregation"`
	Trend       string `json:"trend"`
}

// PrintMetricDefinitions displays every registered operator and the metrics
// it produces. This is a static display that does not touch the index.
func PrintMetricDefinitions(cfg *contract.Config) error {
	defs := buildMetricDefinitions()

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, defs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForMetrics(w, defs)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsTable(w, defs)
		}, "Wrote text")
	}
}

// buildMetricDefinitions flattens the operator registry into display rows.
func buildMetricDefinitions() []metricDefinition {
	var defs []metricDefinition
	for _, op := range operators.All() {
		for _, m := range op.Metrics() {
			defs = append(defs, metricDefinition{
				Operator:    op.Name(),
				Metric:      m.Name,
				Description: m.Description,
				Type:        string(m.Type),
				Aggregation: string(m.Aggregation),
				Trend:       string(m.Trend),
			})
		}
	}
	return defs
}

// writeMetricsTable writes the definitions as a human-readable table.
func writeMetricsTable(w io.Writer, defs []metricDefinition) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Operator", "Metric", "Description", "Type", "Aggregation", "Trend"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, d := range defs {
		data = append(data, []string{d.Operator, d.Metric, d.Description, d.Type, d.Aggregation, d.Trend})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d metrics across %d operators\n", len(defs), len(operators.All()))
	return err
}

// writeCSVResultsForMetrics writes the definitions in CSV format.
func writeCSVResultsForMetrics(w io.Writer, defs []metricDefinition) error {
	header := []string{"operator", "metric", "description", "type", "aggregation", "trend"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range defs {
			rec := []string{d.Operator, d.Metric, d.Description, d.Type, d.Aggregation, d.Trend}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
