// Package index persists revision-indexed metric rows in a single
// columnar file per repository.
//
// An Index is an explicit open/close resource: rows accumulate in
// memory across AnalyzeRevision calls and hit disk exactly once, when
// Close performs an atomic replace of the backing file. An Index is
// not safe for concurrent use; parallelism lives inside the analysis
// engine, not here.
package index

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"slices"

	"github.com/parquet-go/parquet-go"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/internal/engine"
	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
)

// Index is the metrics store for one repository.
type Index struct {
	location string
	ops      []operators.Operator
	metrics  []schema.Metric
	columns  []schema.Column
	pschema  *parquet.Schema
	workers  int

	rows   []*schema.Row
	byKey  map[rowKey]int
	dirty  bool
	closed bool
}

// rowKey identifies a row: one (revision, path) pair holds at most one row.
type rowKey struct {
	revision string
	path     string
}

// Open creates or attaches to the index file at location. An existing
// file whose columns do not match the operator set is rejected with
// *schema.SchemaMismatchError before anything is touched.
func Open(location string, ops []operators.Operator, workers int) (*Index, error) {
	if len(ops) == 0 {
		return nil, errors.New("at least one operator is required")
	}
	metricCols := operators.Columns(ops)
	var metrics []schema.Metric
	for _, op := range ops {
		metrics = append(metrics, op.Metrics()...)
	}

	ix := &Index{
		location: location,
		ops:      ops,
		metrics:  metrics,
		columns:  append(append([]schema.Column{}, keyColumns...), metricCols...),
		pschema:  buildSchema(metricCols),
		workers:  max(workers, 1),
		byKey:    make(map[rowKey]int),
	}

	if _, err := os.Stat(location); err == nil {
		rows, err := readFile(location, ix.pschema)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			ix.insert(r)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	return ix, nil
}

// AnalyzeRevision harvests metrics for the given paths of one
// materialized revision and records file, directory and root rows.
// It returns the total lines of code across the analyzed files. Paths
// the operators cannot parse stay in the row set with whatever values
// survived; only unreadable files abort.
func (ix *Index) AnalyzeRevision(ctx context.Context, basePath string, paths []string, rev *schema.Revision) (int64, error) {
	if ix.closed {
		return 0, schema.ErrClosed
	}

	sorted := slices.Clone(paths)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	results := engine.Analyze(ctx, basePath, sorted, ix.ops, ix.workers)

	var fileRows []*schema.Row
	var rootLOC int64
	for _, p := range sorted {
		res := results[p]
		if res.Err != nil {
			return 0, fmt.Errorf("read %s: %w", p, res.Err)
		}
		for _, opErr := range res.Errors {
			contract.LogWarn("harvest", opErr)
		}
		row := &schema.Row{
			Revision: rev.Key,
			Path:     p,
			PathType: schema.FilePath,
			Date:     rev.Date,
			Author:   rev.AuthorName,
			Message:  rev.Message,
			Values:   res.Values,
		}
		fileRows = append(fileRows, row)
		if loc, ok := row.Int("loc"); ok {
			rootLOC += loc
		}
	}

	for _, row := range fileRows {
		ix.insert(row)
	}
	for _, row := range rollupRows(fileRows, ix.metrics, rev) {
		ix.insert(row)
	}
	ix.dirty = true
	return rootLOC, nil
}

// Get returns all rows recorded for a path, in insertion order. The
// returned rows are shared and must not be mutated.
func (ix *Index) Get(path string) []*schema.Row {
	var out []*schema.Row
	for _, r := range ix.rows {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Rows returns a restartable sequence over a snapshot of the current
// row set. Rows inserted after the call do not appear.
func (ix *Index) Rows() iter.Seq[*schema.Row] {
	snapshot := slices.Clone(ix.rows)
	return func(yield func(*schema.Row) bool) {
		for _, r := range snapshot {
			if !yield(r) {
				return
			}
		}
	}
}

// HasRevision reports whether the revision has been analyzed into this
// index. Every analyzed revision carries a root row.
func (ix *Index) HasRevision(revision string) bool {
	_, ok := ix.byKey[rowKey{revision: revision, path: ""}]
	return ok
}

// Revisions returns the root row of every indexed revision, ordered by
// revision date ascending.
func (ix *Index) Revisions() []*schema.Row {
	var out []*schema.Row
	for _, r := range ix.rows {
		if r.PathType == schema.RootPath {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b *schema.Row) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out
}

// Len returns the number of rows, persisted and accumulated.
func (ix *Index) Len() int {
	return len(ix.rows)
}

// Schema returns the ordered (name, type) column pairs of the index.
func (ix *Index) Schema() []schema.Column {
	return slices.Clone(ix.columns)
}

// Close writes the accumulated rows to disk and seals the index.
// Closing twice is a no-op, as is closing an index that saw no new
// rows.
func (ix *Index) Close() error {
	if ix.closed {
		return nil
	}
	ix.closed = true
	if !ix.dirty {
		return nil
	}
	if err := writeFile(ix.location, ix.pschema, ix.rows); err != nil {
		return err
	}
	ix.dirty = false
	return nil
}

// insert applies last-writer-wins on the (revision, path) key. A
// replaced row keeps its original position.
func (ix *Index) insert(r *schema.Row) {
	k := rowKey{r.Revision, r.Path}
	if i, ok := ix.byKey[k]; ok {
		ix.rows[i] = r
		return
	}
	ix.byKey[k] = len(ix.rows)
	ix.rows = append(ix.rows, r)
}
