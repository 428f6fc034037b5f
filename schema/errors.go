package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by index operations after Close has released the
// accumulator. Close itself stays idempotent and never returns ErrClosed.
var ErrClosed = errors.New("index is closed")

// DirtyWorktreeError reports uncommitted local modifications that would be
// destroyed by a checkout. The build never stashes or overwrites them.
type DirtyWorktreeError struct {
	Files []string
}

func (e *DirtyWorktreeError) Error() string {
	return fmt.Sprintf(
		"dirty repository (%d uncommitted paths, e.g. %s), commit or stash before building",
		len(e.Files), strings.Join(firstN(e.Files, 3), ", "))
}

// RevisionNotFoundError reports a revision reference that could not be
// resolved in the repository history.
type RevisionNotFoundError struct {
	Ref string
}

func (e *RevisionNotFoundError) Error() string {
	return fmt.Sprintf("revision %q not found in repository history", e.Ref)
}

// VcsError wraps a failed version-control operation (bad checkout, broken
// repository). It is fatal to the current build step.
type VcsError struct {
	Op  string
	Err error
}

func (e *VcsError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *VcsError) Unwrap() error { return e.Err }

// ParseError marks a single file that an operator could not analyze. It is
// recovered at the harvester boundary; the surrounding batch continues.
type ParseError struct {
	Path     string
	Operator string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("operator %s could not parse %s", e.Operator, e.Path)
}

// SchemaMismatchError is raised when an existing store was built with a
// different operator set. The caller decides whether to rebuild.
type SchemaMismatchError struct {
	Location string
	Want     []Column
	Got      []Column
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf(
		"store at %s has an incompatible schema (%d stored columns vs %d expected); rebuild the index or match the operator set",
		e.Location, len(e.Got), len(e.Want))
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
