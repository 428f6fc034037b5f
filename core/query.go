package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/internal/index"
	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
)

// buildReport assembles the metric history of one path across every
// indexed revision, oldest first, with per-metric deltas against the
// previous revision.
func buildReport(ix *index.Index, ops []operators.Operator, path string, metricNames []string) (schema.ReportResult, error) {
	metrics, err := resolveMetrics(ops, metricNames)
	if err != nil {
		return schema.ReportResult{}, err
	}

	rows := ix.Get(path)
	if len(rows) == 0 {
		return schema.ReportResult{}, fmt.Errorf("no indexed rows for path %q, run a build first", path)
	}
	slices.SortStableFunc(rows, func(a, b *schema.Row) int {
		return cmp.Compare(a.Date, b.Date)
	})

	report := schema.ReportResult{Path: path, Metrics: metrics}
	previous := make(map[string]float64)
	hasPrevious := make(map[string]bool)

	for _, r := range rows {
		row := schema.ReportRow{
			Revision: r.Revision,
			Author:   r.Author,
			Message:  r.Message,
			Date:     r.Date,
		}
		for _, m := range metrics {
			value := schema.ReportValue{Metric: m.Name, Value: r.Values[m.Name]}
			if f, ok := r.Float(m.Name); ok {
				if hasPrevious[m.Name] {
					value.Delta = f - previous[m.Name]
					value.HasDelta = true
				}
				previous[m.Name] = f
				hasPrevious[m.Name] = true
			}
			row.Values = append(row.Values, value)
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

// buildRank ranks the file rows of one revision by a single metric,
// worst first. Files without a value for the metric are left out.
func buildRank(ix *index.Index, ops []operators.Operator, revisionPrefix, metricName string) (schema.RankResult, error) {
	metric, ok := operators.Metric(ops, metricName)
	if !ok {
		return schema.RankResult{}, fmt.Errorf("unknown metric %q for the active operator set", metricName)
	}

	revision, err := resolveRevision(ix, revisionPrefix)
	if err != nil {
		return schema.RankResult{}, err
	}

	rank := schema.RankResult{Revision: revision, Metric: metric}
	for r := range ix.Rows() {
		if r.Revision != revision || r.PathType != schema.FilePath {
			continue
		}
		v, present := r.Values[metric.Name]
		if !present {
			continue
		}
		rank.Entries = append(rank.Entries, schema.RankEntry{Path: r.Path, Value: v})
	}

	slices.SortStableFunc(rank.Entries, func(a, b schema.RankEntry) int {
		return compareWorse(a.Value, b.Value, metric)
	})
	return rank, nil
}

// compareWorse orders two metric values worst first according to the
// metric's trend. String ranks order lexicographically, C before A.
func compareWorse(a, b any, metric schema.Metric) int {
	if metric.Type == schema.StrType {
		as, _ := a.(string)
		bs, _ := b.(string)
		return strings.Compare(bs, as)
	}

	af := numeric(a)
	bf := numeric(b)
	if metric.Trend == schema.AimHigh {
		return cmp.Compare(af, bf)
	}
	return cmp.Compare(bf, af)
}

func numeric(v any) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case float64:
		return val
	}
	return 0
}

// resolveRevision maps a revision prefix to a fully indexed revision key.
// An empty prefix selects the newest indexed revision.
func resolveRevision(ix *index.Index, prefix string) (string, error) {
	roots := ix.Revisions()
	if len(roots) == 0 {
		return "", errors.New("index is empty, run a build first")
	}
	if prefix == "" {
		return roots[len(roots)-1].Revision, nil
	}
	for _, root := range roots {
		if strings.HasPrefix(root.Revision, prefix) {
			return root.Revision, nil
		}
	}
	return "", &schema.RevisionNotFoundError{Ref: prefix}
}

// revisionRecordsFromIndex derives a revision listing from the index's
// root rows when no catalog entries exist.
func revisionRecordsFromIndex(cfg *contract.Config) ([]schema.RevisionRecord, error) {
	_, ix, err := openIndexForQuery(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = ix.Close() }()

	cacheKey := index.CacheKey(cfg.RepoPath)
	var records []schema.RevisionRecord
	for _, root := range ix.Revisions() {
		loc, _ := root.Int("loc")
		records = append(records, schema.RevisionRecord{
			CacheKey: cacheKey,
			Revision: root.Revision,
			Date:     root.Date,
			Author:   root.Author,
			Message:  root.Message,
			RootLOC:  loc,
		})
	}
	return records, nil
}

// resolveMetrics expands the requested metric names against the active
// operator set, defaulting to every metric the set produces.
func resolveMetrics(ops []operators.Operator, names []string) ([]schema.Metric, error) {
	if len(names) == 0 {
		var all []schema.Metric
		for _, op := range ops {
			all = append(all, op.Metrics()...)
		}
		return all, nil
	}

	metrics := make([]schema.Metric, 0, len(names))
	for _, name := range names {
		m, ok := operators.Metric(ops, name)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q for the active operator set", name)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}
