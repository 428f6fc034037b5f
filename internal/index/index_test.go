package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strata-dev/strata/internal/operators"
	"github.com/strata-dev/strata/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allOps(t *testing.T) []operators.Operator {
	t.Helper()
	ops, err := operators.Resolve([]string{"raw", "cyclomatic", "halstead", "maintainability"})
	require.NoError(t, err)
	return ops
}

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	base := t.TempDir()
	for path, content := range files {
		full := filepath.Join(base, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return base
}

// pyLines builds a parseable python file with exactly n lines.
func pyLines(n int) string {
	return strings.Repeat("x = 1\n", n)
}

func testRevision(key string, date int64) *schema.Revision {
	return &schema.Revision{
		Key:        key,
		AuthorName: "Alice",
		Date:       date,
		Message:    "change " + key,
	}
}

func TestAnalyzeRevisionRecordsFileDirAndRootRows(t *testing.T) {
	base := writeRepo(t, map[string]string{
		"src/a.py": pyLines(2),
		"src/b.py": "def f(x):\n    if x:\n        return 1\n    return 0\n",
	})
	location := filepath.Join(t.TempDir(), "metrics.parquet")

	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)

	rootLOC, err := ix.AnalyzeRevision(context.Background(), base, []string{"src/a.py", "src/b.py"}, testRevision("r1", 1700000000))
	require.NoError(t, err)
	assert.Equal(t, int64(6), rootLOC)

	// Two file rows, one directory row, one root row.
	assert.Equal(t, 4, ix.Len())

	a := ix.Get("src/a.py")
	require.Len(t, a, 1)
	assert.Equal(t, "r1", a[0].Revision)
	assert.Equal(t, schema.FilePath, a[0].PathType)
	assert.Equal(t, "Alice", a[0].Author)
	loc, ok := a[0].Int("loc")
	require.True(t, ok)
	assert.Equal(t, int64(2), loc)

	dir := ix.Get("src")
	require.Len(t, dir, 1)
	assert.Equal(t, schema.DirectoryPath, dir[0].PathType)
	dirLOC, _ := dir[0].Int("loc")
	assert.Equal(t, int64(6), dirLOC)
	// complexity averages over both files: (0 + 2) / 2.
	cplx, ok := dir[0].Float("complexity")
	require.True(t, ok)
	assert.Equal(t, 1.0, cplx)

	root := ix.Get("")
	require.Len(t, root, 1)
	assert.Equal(t, schema.RootPath, root[0].PathType)
	rootRowLOC, _ := root[0].Int("loc")
	assert.Equal(t, int64(6), rootRowLOC)
}

func TestAnalyzeRevisionGrowingFile(t *testing.T) {
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)

	sizes := []int{10, 12, 15}
	for i, n := range sizes {
		base := writeRepo(t, map[string]string{"a.py": pyLines(n)})
		rootLOC, err := ix.AnalyzeRevision(context.Background(), base, []string{"a.py"}, testRevision(string(rune('a'+i)), int64(1700000000+i)))
		require.NoError(t, err)
		assert.Equal(t, int64(n), rootLOC)
	}

	rows := ix.Get("a.py")
	require.Len(t, rows, 3)
	for i, n := range sizes {
		loc, ok := rows[i].Int("loc")
		require.True(t, ok)
		assert.Equal(t, int64(n), loc)
	}
}

func TestAnalyzeRevisionLastWriterWins(t *testing.T) {
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)

	rev := testRevision("r1", 1700000000)
	base := writeRepo(t, map[string]string{"a.py": pyLines(3)})
	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"a.py"}, rev)
	require.NoError(t, err)
	countAfterFirst := ix.Len()

	base = writeRepo(t, map[string]string{"a.py": pyLines(7)})
	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"a.py"}, rev)
	require.NoError(t, err)

	assert.Equal(t, countAfterFirst, ix.Len())
	rows := ix.Get("a.py")
	require.Len(t, rows, 1)
	loc, _ := rows[0].Int("loc")
	assert.Equal(t, int64(7), loc)
}

func TestAnalyzeRevisionUnparseableFileKeepsLineCounts(t *testing.T) {
	base := writeRepo(t, map[string]string{"broken.py": "def broken(:\n    pass\n"})
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)

	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"broken.py"}, testRevision("r1", 1700000000))
	require.NoError(t, err)

	rows := ix.Get("broken.py")
	require.Len(t, rows, 1)
	loc, ok := rows[0].Int("loc")
	require.True(t, ok)
	assert.Equal(t, int64(2), loc)
	_, ok = rows[0].Float("complexity")
	assert.False(t, ok)
	_, ok = rows[0].Str("rank")
	assert.False(t, ok)
}

func TestCloseAndReopenRoundTrip(t *testing.T) {
	base := writeRepo(t, map[string]string{
		"src/a.py": pyLines(2),
		"src/b.py": "def f(x):\n    if x:\n        return 1\n    return 0\n",
	})
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ops := allOps(t)

	ix, err := Open(location, ops, 2)
	require.NoError(t, err)
	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"src/a.py", "src/b.py"}, testRevision("r1", 1700000000))
	require.NoError(t, err)

	wantLen := ix.Len()
	wantA := ix.Get("src/a.py")[0]
	require.NoError(t, ix.Close())

	reopened, err := Open(location, ops, 2)
	require.NoError(t, err)
	assert.Equal(t, wantLen, reopened.Len())

	gotA := reopened.Get("src/a.py")
	require.Len(t, gotA, 1)
	assert.Equal(t, wantA.Revision, gotA[0].Revision)
	assert.Equal(t, wantA.PathType, gotA[0].PathType)
	assert.Equal(t, wantA.Date, gotA[0].Date)
	assert.Equal(t, wantA.Author, gotA[0].Author)
	assert.Equal(t, wantA.Message, gotA[0].Message)
	assert.Equal(t, wantA.Values, gotA[0].Values)
}

func TestCloseIsIdempotent(t *testing.T) {
	base := writeRepo(t, map[string]string{"a.py": pyLines(1)})
	location := filepath.Join(t.TempDir(), "metrics.parquet")

	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)
	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"a.py"}, testRevision("r1", 1700000000))
	require.NoError(t, err)

	require.NoError(t, ix.Close())
	info, err := os.Stat(location)
	require.NoError(t, err)

	require.NoError(t, ix.Close())
	again, err := os.Stat(location)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

func TestCloseWithoutChangesWritesNothing(t *testing.T) {
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	_, err = os.Stat(location)
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzeRevisionAfterCloseFails(t *testing.T) {
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	_, err = ix.AnalyzeRevision(context.Background(), t.TempDir(), []string{"a.py"}, testRevision("r1", 1))
	assert.ErrorIs(t, err, schema.ErrClosed)
}

func TestOpenSchemaMismatch(t *testing.T) {
	base := writeRepo(t, map[string]string{"a.py": pyLines(1)})
	location := filepath.Join(t.TempDir(), "metrics.parquet")

	rawOnly, err := operators.Resolve([]string{"raw"})
	require.NoError(t, err)

	ix, err := Open(location, rawOnly, 2)
	require.NoError(t, err)
	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"a.py"}, testRevision("r1", 1700000000))
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	_, err = Open(location, allOps(t), 2)
	var mismatch *schema.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, location, mismatch.Location)
}

func TestSchemaOrder(t *testing.T) {
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)

	cols := ix.Schema()
	require.Greater(t, len(cols), 6)
	assert.Equal(t, "revision", cols[0].Name)
	assert.Equal(t, "path", cols[1].Name)
	assert.Equal(t, "loc", cols[6].Name)
}

func TestRowsSnapshotIsRestartable(t *testing.T) {
	base := writeRepo(t, map[string]string{"a.py": pyLines(2), "b.py": pyLines(3)})
	location := filepath.Join(t.TempDir(), "metrics.parquet")
	ix, err := Open(location, allOps(t), 2)
	require.NoError(t, err)
	_, err = ix.AnalyzeRevision(context.Background(), base, []string{"a.py", "b.py"}, testRevision("r1", 1700000000))
	require.NoError(t, err)

	seq := ix.Rows()
	var first, second int
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, ix.Len(), first)
	assert.Equal(t, first, second)
}

func TestLocationIsStableAcrossSpellings(t *testing.T) {
	cache := t.TempDir()
	repo := t.TempDir()

	plain := Location(cache, repo)
	dotted := Location(cache, filepath.Join(repo, ".", "."))
	assert.Equal(t, plain, dotted)
	assert.Equal(t, "metrics.parquet", filepath.Base(plain))

	other := Location(cache, t.TempDir())
	assert.NotEqual(t, plain, other)
}
