package schema

import "time"

// RevisionRecord represents a row from the strata_revisions catalog table:
// one revision that has been fully indexed for a tracked repository.
type RevisionRecord struct {
	CacheKey  string    `json:"cache_key"`  // Derived from the absolute repository path
	Revision  string    `json:"revision"`   // Full revision key
	Date      int64     `json:"date"`       // Revision timestamp in Unix seconds
	Author    string    `json:"author"`     // Author display name, may be empty
	Message   string    `json:"message"`    // Commit message, may be empty
	RootLOC   int64     `json:"root_loc"`   // Lines of code analyzed at the root for this revision
	IndexedAt time.Time `json:"indexed_at"` // When the revision was written to the index
}

// CatalogStatus represents the status of the revision catalog store.
type CatalogStatus struct {
	Backend        string `json:"backend"`
	Connected      bool   `json:"connected"`
	TotalRevisions int    `json:"total_revisions"`
	TotalRepos     int    `json:"total_repos"`
}
