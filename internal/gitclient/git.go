// Package gitclient implements the revision archiver on top of the
// local 'git' binary installed on the machine.
package gitclient

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/schema"
)

// recordSep marks the start of one commit record in git log output.
const recordSep = "\x1e"

// fieldSep separates header fields within one commit record.
const fieldSep = "\x00"

// runner executes a git subcommand against a repository. It exists so
// tests can substitute canned output for the real binary.
type runner func(ctx context.Context, repoPath string, args ...string) ([]byte, error)

// LocalArchiver implements the contract.Archiver interface by executing
// the local 'git' binary.
type LocalArchiver struct {
	run runner
}

var _ contract.Archiver = &LocalArchiver{} // Compile-time check

// NewLocalArchiver creates a new instance of the local git archiver.
func NewLocalArchiver() *LocalArchiver {
	return &LocalArchiver{run: execGit}
}

// execGit executes a git command and returns its stdout output.
func execGit(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// ListRevisions implements the contract.Archiver interface. Revisions come
// back newest first, each carrying the file sets needed for incremental
// indexing. The working tree must be clean before history can be walked.
func (a *LocalArchiver) ListRevisions(ctx context.Context, repoPath string, maxCount int) ([]*schema.Revision, error) {
	dirty, err := a.dirtyFiles(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	if len(dirty) > 0 {
		return nil, &schema.DirtyWorktreeError{Files: dirty}
	}

	args := []string{
		"log",
		"--name-status",
		"--no-renames",
		"--pretty=format:" + recordSep + "%H%x00%an%x00%ae%x00%at%x00%s",
	}
	if maxCount > 0 {
		args = append(args, "-n", strconv.Itoa(maxCount))
	}
	out, err := a.run(ctx, repoPath, args...)
	if err != nil {
		return nil, &schema.VcsError{Op: "log", Err: err}
	}

	revisions, err := parseLog(string(out))
	if err != nil {
		return nil, &schema.VcsError{Op: "log", Err: err}
	}
	if len(revisions) == 0 {
		return revisions, nil
	}

	// The tracked set is known directly only for the newest revision.
	// Walking backwards, the set before a commit is the set after it,
	// minus its additions, plus its deletions.
	tracked, err := a.listTracked(ctx, repoPath, revisions[0].Key)
	if err != nil {
		return nil, err
	}
	for _, rev := range revisions {
		rev.TrackedFiles = sortedKeys(tracked)
		for _, f := range rev.AddedFiles {
			delete(tracked, f)
		}
		for _, f := range rev.DeletedFiles {
			tracked[f] = struct{}{}
		}
	}
	return revisions, nil
}

// Checkout implements the contract.Archiver interface.
func (a *LocalArchiver) Checkout(ctx context.Context, repoPath string, key string) error {
	if _, err := a.run(ctx, repoPath, "checkout", key); err != nil {
		return &schema.VcsError{Op: "checkout", Err: err}
	}
	return nil
}

// CurrentBranch implements the contract.Archiver interface.
func (a *LocalArchiver) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := a.run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &schema.VcsError{Op: "rev-parse", Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// CheckoutBranch implements the contract.Archiver interface.
func (a *LocalArchiver) CheckoutBranch(ctx context.Context, repoPath string, branch string) error {
	if _, err := a.run(ctx, repoPath, "checkout", branch); err != nil {
		return &schema.VcsError{Op: "checkout", Err: err}
	}
	return nil
}

// Find implements the contract.Archiver interface.
func (a *LocalArchiver) Find(ctx context.Context, repoPath string, prefix string) (*schema.Revision, error) {
	out, err := a.run(ctx, repoPath, "rev-parse", prefix)
	if err != nil {
		return nil, &schema.RevisionNotFoundError{Ref: prefix}
	}
	key := strings.TrimSpace(string(out))

	args := []string{
		"log", "-n", "1",
		"--pretty=format:" + recordSep + "%H%x00%an%x00%ae%x00%at%x00%s",
		key,
	}
	out, err = a.run(ctx, repoPath, args...)
	if err != nil {
		return nil, &schema.RevisionNotFoundError{Ref: prefix}
	}
	revisions, err := parseLog(string(out))
	if err != nil || len(revisions) == 0 {
		return nil, &schema.RevisionNotFoundError{Ref: prefix}
	}
	return revisions[0], nil
}

// dirtyFiles returns the paths with uncommitted changes, untracked
// files included.
func (a *LocalArchiver) dirtyFiles(ctx context.Context, repoPath string) ([]string, error) {
	out, err := a.run(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return nil, &schema.VcsError{Op: "status", Err: err}
	}
	var files []string
	for line := range strings.Lines(string(out)) {
		line = strings.TrimRight(line, "\n")
		if len(line) > 3 {
			files = append(files, line[3:])
		}
	}
	return files, nil
}

// listTracked returns the set of all files tracked at a revision.
func (a *LocalArchiver) listTracked(ctx context.Context, repoPath string, key string) (map[string]struct{}, error) {
	out, err := a.run(ctx, repoPath, "ls-tree", "-r", "--name-only", key)
	if err != nil {
		return nil, &schema.VcsError{Op: "ls-tree", Err: err}
	}
	tracked := make(map[string]struct{})
	for line := range strings.Lines(string(out)) {
		line = strings.TrimSpace(line)
		if line != "" {
			tracked[line] = struct{}{}
		}
	}
	return tracked, nil
}

// parseLog parses 'git log --name-status' output into revisions. Each
// record starts with a separator byte, then one NUL-delimited header
// line, then one status line per touched file.
func parseLog(out string) ([]*schema.Revision, error) {
	var revisions []*schema.Revision
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		header, body, _ := strings.Cut(record, "\n")
		fields := strings.Split(header, fieldSep)
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed log header: %q", header)
		}
		date, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed commit date %q: %w", fields[3], err)
		}
		rev := &schema.Revision{
			Key:         fields[0],
			AuthorName:  fields[1],
			AuthorEmail: fields[2],
			Date:        date,
			Message:     fields[4],
		}
		for line := range strings.Lines(body) {
			line = strings.TrimRight(line, "\n")
			status, path, ok := strings.Cut(line, "\t")
			if !ok || path == "" || status == "" {
				continue
			}
			switch status[0] {
			case 'A':
				rev.AddedFiles = append(rev.AddedFiles, path)
			case 'M', 'T':
				rev.ModifiedFiles = append(rev.ModifiedFiles, path)
			case 'D':
				rev.DeletedFiles = append(rev.DeletedFiles, path)
			}
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
