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

const maxMessageWidth = 48

// PrintRevisionResults outputs the indexed revision listing of a repository,
// oldest first, dispatching on the configured output format.
func PrintRevisionResults(records []schema.RevisionRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRevisions(w, records)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRevisionsTable(w, records)
		}, "Wrote text")
	}
}

// writeRevisionsTable writes the listing as a human-readable table.
func writeRevisionsTable(w io.Writer, records []schema.RevisionRecord) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Revision", "Author", "Message", "Date", "LOC"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, rec := range records {
		msg := rec.Message
		if len(msg) > maxMessageWidth {
			msg = msg[:maxMessageWidth-3] + "..."
		}
		data = append(data, []string{
			shortRevision(rec.Revision),
			rec.Author,
			msg,
			time.Unix(rec.Date, 0).UTC().Format(time.DateOnly),
			strconv.FormatInt(rec.RootLOC, 10),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Indexed %d revisions\n", len(records)); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRevisions writes the listing in CSV format.
func writeCSVResultsForRevisions(w io.Writer, records []schema.RevisionRecord) error {
	header := []string{"revision", "author", "message", "date", "root_loc", "indexed_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rec := range records {
			row := []string{
				rec.Revision,
				rec.Author,
				rec.Message,
				time.Unix(rec.Date, 0).UTC().Format(contract.DateTimeFormat),
				strconv.FormatInt(rec.RootLOC, 10),
				rec.IndexedAt.Format(contract.DateTimeFormat),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
