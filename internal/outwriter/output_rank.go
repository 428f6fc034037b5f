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

// PrintRankResults outputs per-file metric values for one revision, worst
// first, dispatching on the configured output format.
func PrintRankResults(rank schema.RankResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rank)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRank(w, rank, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankTable(w, rank, cfg, duration)
		}, "Wrote text")
	}
}

// writeRankTable writes the ranking as a human-readable table.
func writeRankTable(w io.Writer, rank schema.RankResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	maxPathWidth := GetMaxTablePathWidth(cfg, 2)

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Rank", "Path", rank.Metric.Name})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, e := range rank.Entries {
		value := formatMetricValue(e.Value, fmtFloat, intFmt)
		if cfg.UseColors && rank.Metric.Name == "rank" {
			if s, ok := e.Value.(string); ok {
				value = contract.GetColorRank(s)
			}
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(displayPath(e.Path), maxPathWidth),
			value,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Ranked %d files by %s at revision %s\n", len(rank.Entries), rank.Metric.Name, shortRevision(rank.Revision)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rank completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRank writes the ranking in CSV format.
func writeCSVResultsForRank(w io.Writer, rank schema.RankResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	header := []string{"rank", "path", "revision", "metric", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, e := range rank.Entries {
			rec := []string{
				strconv.Itoa(i + 1),
				e.Path,
				rank.Revision,
				rank.Metric.Name,
				formatMetricValue(e.Value, fmtFloat, intFmt),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
