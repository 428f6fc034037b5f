// Package core has core logic for index builds and index queries.
package core

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/strata-dev/strata/internal/catalog"
	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/internal/gitclient"
	"github.com/strata-dev/strata/internal/index"
	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/internal/outwriter"
	"github.com/strata-dev/strata/schema"
)

// ExecutorFunc defines the function signature for executing a command mode.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteBuild walks the revision history and indexes every revision that
// is not yet in the metrics store. It serves as the main entry point for
// the 'build' command.
func ExecuteBuild(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	archiver := gitclient.NewLocalArchiver()

	store, err := catalog.NewStore(cfg.CatalogBackend, cfg.CatalogDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	outwriter.LogBuildHeader(cfg)
	stats, err := runBuild(ctx, cfg, archiver, store)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteBuildStats(stats, cfg, duration)
}

// ExecuteReport prints the metric history of one path across all indexed
// revisions. It serves as the main entry point for the 'report' command.
func ExecuteReport(_ context.Context, cfg *contract.Config, path string, metricNames []string) error {
	start := time.Now()
	report, err := GetReportResults(cfg, path, metricNames)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteReport(report, cfg, duration)
}

// GetReportResults assembles the metric history of one path without
// printing it. Used by the MCP server and the 'report' command.
func GetReportResults(cfg *contract.Config, path string, metricNames []string) (schema.ReportResult, error) {
	ops, ix, err := openIndexForQuery(cfg)
	if err != nil {
		return schema.ReportResult{}, err
	}
	defer func() { _ = ix.Close() }()

	return buildReport(ix, ops, normalizeQueryPath(path), metricNames)
}

// ExecuteRank prints per-file metric values at one revision, worst first.
// It serves as the main entry point for the 'rank' command.
func ExecuteRank(_ context.Context, cfg *contract.Config, revisionPrefix, metricName string) error {
	start := time.Now()
	rank, err := GetRankResults(cfg, revisionPrefix, metricName)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRank(rank, cfg, duration)
}

// GetRankResults ranks the files of one revision without printing the
// result. Used by the MCP server and the 'rank' command.
func GetRankResults(cfg *contract.Config, revisionPrefix, metricName string) (schema.RankResult, error) {
	ops, ix, err := openIndexForQuery(cfg)
	if err != nil {
		return schema.RankResult{}, err
	}
	defer func() { _ = ix.Close() }()

	return buildRank(ix, ops, revisionPrefix, metricName)
}

// ExecuteListRevisions prints the indexed revisions of the repository,
// oldest first. The catalog is preferred; when it is unavailable the
// listing falls back to the index's own root rows.
func ExecuteListRevisions(_ context.Context, cfg *contract.Config) error {
	records, err := GetRevisionListing(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRevisions(records, cfg)
}

// GetRevisionListing returns the indexed revisions of the repository
// without printing them. Used by the MCP server and the 'index' command.
func GetRevisionListing(cfg *contract.Config) ([]schema.RevisionRecord, error) {
	store, err := catalog.NewStore(cfg.CatalogBackend, cfg.CatalogDBConnect)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	records, err := store.ListRevisions(index.CacheKey(cfg.RepoPath))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		records, err = revisionRecordsFromIndex(cfg)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// ExecuteListMetrics displays every registered operator and its metrics.
// This is a static display that does not touch the index.
func ExecuteListMetrics(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg)
}

// openIndexForQuery resolves the configured operator set and attaches to
// the repository's index file.
func openIndexForQuery(cfg *contract.Config) ([]operators.Operator, *index.Index, error) {
	ops, err := operators.Resolve(cfg.Operators)
	if err != nil {
		return nil, nil, err
	}
	ix, err := index.Open(index.Location(cfg.CacheDir, cfg.RepoPath), ops, cfg.Workers)
	if err != nil {
		return nil, nil, err
	}
	return ops, ix, nil
}

// normalizeQueryPath maps user-supplied path spellings to the stored,
// slash-separated relative form. "." and "/" mean the analyzed root.
func normalizeQueryPath(path string) string {
	p := filepath.ToSlash(strings.TrimSpace(path))
	p = strings.TrimPrefix(p, "./")
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}
	return p
}
