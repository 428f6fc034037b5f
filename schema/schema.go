// Package schema has configs, models and shared types for all parts of strata.
package schema

// Revision represents one historical snapshot of the tracked codebase.
// Instances are produced by the archiver and never mutated afterwards.
type Revision struct {
	Key         string // Full revision identifier (commit SHA)
	AuthorName  string // Display name of the author, may be empty
	AuthorEmail string // Email of the author, may be empty
	Date        int64  // Commit timestamp in Unix seconds
	Message     string // Commit subject/body, may be empty

	// Change sets relative to the parent revision. TrackedFiles is the
	// full set of analyzable files present in the revision's tree.
	TrackedFiles  []string
	AddedFiles    []string
	ModifiedFiles []string
	DeletedFiles  []string
}

// ChangedFiles returns the union of added and modified files, the minimal
// set that needs (re-)analysis for an incremental build step.
func (r *Revision) ChangedFiles() []string {
	out := make([]string, 0, len(r.AddedFiles)+len(r.ModifiedFiles))
	out = append(out, r.AddedFiles...)
	out = append(out, r.ModifiedFiles...)
	return out
}

// ShortKey returns an abbreviated revision identifier for display.
func (r *Revision) ShortKey() string {
	if len(r.Key) > 8 {
		return r.Key[:8]
	}
	return r.Key
}

// Metric describes a single named measurement produced by an operator.
type Metric struct {
	Name        string      `json:"name"`        // Column name, unique across the active operator set
	Description string      `json:"description"` // Human readable description
	Type        ValueType   `json:"type"`        // Storage type of the metric values
	Aggregation Aggregation `json:"aggregation"` // How values roll up to directory/project level
	Trend       Trend       `json:"trend"`       // Whether lower or higher values are better
}

// Column is one (name, type) pair of the index schema. The ordered column
// list is the portable contract any reader can validate against.
type Column struct {
	Name string
	Type ValueType
}

// Row is one record of the metrics index: the values of one path at one
// revision. Metric values are keyed by metric name; a missing key means the
// metric could not be computed for this path (e.g. a parse failure).
type Row struct {
	Revision string
	Path     string         // Relative to the analyzed root; "" for the root itself
	PathType PathType       // Root, directory or file
	Date     int64          // Unix seconds of the revision
	Author   string         // Empty means unknown
	Message  string         // Empty means none recorded
	Values   map[string]any // metric name -> int64 | float64 | string | bool
}

// Int returns the named metric as an int64, with ok reporting presence.
func (r *Row) Int(name string) (int64, bool) {
	v, ok := r.Values[name].(int64)
	return v, ok
}

// Float returns the named metric as a float64, with ok reporting
// presence. Integer metrics convert transparently.
func (r *Row) Float(name string) (float64, bool) {
	switch v := r.Values[name].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Str returns the named metric as a string, with ok reporting presence.
func (r *Row) Str(name string) (string, bool) {
	v, ok := r.Values[name].(string)
	return v, ok
}
