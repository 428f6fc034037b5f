// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/strata-dev/strata/schema"
)

// Archiver defines the revision-source operations needed to walk a
// repository's history. This allows the build pipeline to be tested
// without needing a real git executable.
type Archiver interface {
	// ListRevisions returns up to maxCount revisions, newest first.
	// It fails with *schema.DirtyWorktreeError when the working tree
	// has uncommitted changes, since a later Checkout would clobber them.
	ListRevisions(ctx context.Context, repoPath string, maxCount int) ([]*schema.Revision, error)

	// Checkout puts the working tree at the given revision key.
	Checkout(ctx context.Context, repoPath string, key string) error

	// CurrentBranch returns the name of the currently checked-out branch.
	CurrentBranch(ctx context.Context, repoPath string) (string, error)

	// CheckoutBranch restores the working tree to the named branch.
	// Callers must invoke this after a sequence of Checkout calls,
	// whether or not the sequence succeeded.
	CheckoutBranch(ctx context.Context, repoPath string, branch string) error

	// Find resolves a full revision key or a unique key prefix. It fails
	// with *schema.RevisionNotFoundError when nothing matches.
	Find(ctx context.Context, repoPath string, prefix string) (*schema.Revision, error)
}

// CatalogStore defines the interface for tracking indexed revisions
// across repositories. This allows the catalog layer to be mocked for testing.
type CatalogStore interface {
	// RecordRevision stores one indexed-revision record, replacing any
	// previous record with the same (cache key, revision) pair.
	RecordRevision(rec schema.RevisionRecord) error

	// ListRevisions returns all records for a repo cache key, oldest first.
	ListRevisions(cacheKey string) ([]schema.RevisionRecord, error)

	// HasRevision reports whether a revision has already been indexed.
	HasRevision(cacheKey string, revision string) (bool, error)

	// GetStatus returns status information about the catalog store.
	GetStatus() (schema.CatalogStatus, error)

	// Clear removes all records from the catalog.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
