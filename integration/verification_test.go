//go:build integration

// Package integration contains integration tests for strata.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"bytes"
	"encoding/csv"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExternalRepoVerification clones a small public Python repo, builds an
// index over its history and cross-checks the listing against git itself.
func TestExternalRepoVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	testRepoURL := "https://github.com/pypa/sampleproject"
	testRepoDir := t.TempDir()

	cloneCmd := exec.Command("git", "clone", testRepoURL, testRepoDir)
	if err := cloneCmd.Run(); err != nil {
		t.Skipf("failed to clone test repo: %v", err)
	}

	// Build strata binary
	strataPath := filepath.Join(t.TempDir(), "strata")
	buildCmd := exec.Command("go", "build", "-o", strataPath, "./cmd/strata")
	buildCmd.Dir = ".." // Project root
	require.NoError(t, buildCmd.Run())

	cacheDir := t.TempDir()
	maxRevisions := 10

	buildIdx := exec.Command(strataPath, "build", testRepoDir,
		"--cache-dir", cacheDir,
		"--max-revisions", strconv.Itoa(maxRevisions),
		"--catalog-backend", "none")
	output, err := buildIdx.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))

	// List the indexed revisions as CSV and parse them.
	listCmd := exec.Command(strataPath, "index", testRepoDir,
		"--cache-dir", cacheDir,
		"--catalog-backend", "none",
		"--output", "csv")
	var stdout bytes.Buffer
	listCmd.Stdout = &stdout
	require.NoError(t, listCmd.Run())

	records, err := csv.NewReader(&stdout).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 1, "expected a header and at least one revision")
	rows := records[1:]
	assert.LessOrEqual(t, len(rows), maxRevisions)

	// Every listed revision must exist in the repository's history.
	gitCmd := exec.Command("git", "rev-list", "HEAD")
	gitCmd.Dir = testRepoDir
	gitOutput, err := gitCmd.Output()
	require.NoError(t, err)
	known := make(map[string]bool)
	for line := range strings.SplitSeq(strings.TrimSpace(string(gitOutput)), "\n") {
		known[strings.TrimSpace(line)] = true
	}

	for _, row := range rows {
		revision := row[0]
		assert.True(t, known[revision], "revision %s not found in git history", revision)
	}

	// The listing is oldest first, matching git's reversed order.
	gitCount := len(known)
	if gitCount > maxRevisions {
		gitCount = maxRevisions
	}
	assert.Equal(t, gitCount, len(rows))
}
