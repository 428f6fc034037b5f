package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/internal/index"
	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
)

// runBuild walks the revision history oldest first and analyzes every
// revision that is not yet in the index. The working tree is checked out
// per revision and restored to the original branch when the build ends,
// successfully or not.
func runBuild(ctx context.Context, cfg *contract.Config, archiver contract.Archiver, store contract.CatalogStore) (stats schema.BuildStats, err error) {
	ops, err := operators.Resolve(cfg.Operators)
	if err != nil {
		return stats, err
	}

	revs, err := archiver.ListRevisions(ctx, cfg.RepoPath, cfg.MaxRevisions)
	if err != nil {
		return stats, err
	}
	if len(revs) == 0 {
		return stats, errors.New("no revisions found")
	}

	branch, err := archiver.CurrentBranch(ctx, cfg.RepoPath)
	if err != nil {
		return stats, err
	}

	location := index.Location(cfg.CacheDir, cfg.RepoPath)
	cacheKey := index.CacheKey(cfg.RepoPath)

	ix, err := index.Open(location, ops, cfg.Workers)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := ix.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	defer func() {
		if rerr := archiver.CheckoutBranch(ctx, cfg.RepoPath, branch); rerr != nil {
			contract.LogWarn("branch restore", rerr)
		}
	}()

	// Oldest first, so each revision only needs its change set once the
	// index is seeded.
	for i := len(revs) - 1; i >= 0; i-- {
		rev := revs[i]

		if ix.HasRevision(rev.Key) {
			stats.RevisionsSkipped++
			backfillCatalog(store, cacheKey, rev, ix)
			continue
		}

		targets := buildTargets(ix, rev)
		if cerr := archiver.Checkout(ctx, cfg.RepoPath, rev.Key); cerr != nil {
			return stats, cerr
		}

		rootLOC, aerr := ix.AnalyzeRevision(ctx, cfg.RepoPath, targets, rev)
		if aerr != nil {
			return stats, fmt.Errorf("revision %s: %w", rev.ShortKey(), aerr)
		}

		stats.RevisionsIndexed++
		stats.FilesAnalyzed += len(targets)
		stats.RootLOC = rootLOC

		rec := schema.RevisionRecord{
			CacheKey:  cacheKey,
			Revision:  rev.Key,
			Date:      rev.Date,
			Author:    rev.AuthorName,
			Message:   rev.Message,
			RootLOC:   rootLOC,
			IndexedAt: time.Now().UTC(),
		}
		if rerr := store.RecordRevision(rec); rerr != nil {
			contract.LogWarn("catalog record", rerr)
		}
	}

	stats.RowsWritten = ix.Len()
	return stats, nil
}

// buildTargets selects the files to analyze for one revision. The first
// revision entering an empty index seeds it with the full tracked set;
// every later revision only needs its added and modified files.
func buildTargets(ix *index.Index, rev *schema.Revision) []string {
	source := rev.ChangedFiles()
	if ix.Len() == 0 {
		source = rev.TrackedFiles
	}
	var targets []string
	for _, p := range source {
		if operators.Supports(p) {
			targets = append(targets, p)
		}
	}
	return targets
}

// backfillCatalog repairs a catalog that lost track of an already indexed
// revision, using the root row as the source of truth.
func backfillCatalog(store contract.CatalogStore, cacheKey string, rev *schema.Revision, ix *index.Index) {
	ok, err := store.HasRevision(cacheKey, rev.Key)
	if err != nil || ok {
		return
	}

	var rootLOC int64
	for _, root := range ix.Revisions() {
		if root.Revision == rev.Key {
			rootLOC, _ = root.Int("loc")
			break
		}
	}

	rec := schema.RevisionRecord{
		CacheKey:  cacheKey,
		Revision:  rev.Key,
		Date:      rev.Date,
		Author:    rev.AuthorName,
		Message:   rev.Message,
		RootLOC:   rootLOC,
		IndexedAt: time.Now().UTC(),
	}
	if rerr := store.RecordRevision(rec); rerr != nil {
		contract.LogWarn("catalog record", rerr)
	}
}
