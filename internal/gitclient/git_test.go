package gitclient

import (
	"context"
	"errors"
	"testing"

	"github.com/strata-dev/strata/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner maps the git subcommand name to canned output.
func fakeRunner(t *testing.T, outputs map[string]string) runner {
	t.Helper()
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		require.NotEmpty(t, args)
		out, ok := outputs[args[0]]
		if !ok {
			return nil, errors.New("unexpected git subcommand: " + args[0])
		}
		return []byte(out), nil
	}
}

const logFixture = "\x1e" + "aaa111\x00Alice\x00alice@example.com\x001700000100\x00Add analyzer\n" +
	"A\tsrc/a.py\n" +
	"M\tsrc/b.py\n" +
	"\n" +
	"\x1e" + "bbb222\x00Bob\x00bob@example.com\x001700000000\x00Initial commit\n" +
	"A\tsrc/b.py\n" +
	"D\tsrc/old.py\n"

func TestListRevisions(t *testing.T) {
	a := &LocalArchiver{run: fakeRunner(t, map[string]string{
		"status":  "",
		"log":     logFixture,
		"ls-tree": "src/a.py\nsrc/b.py\nREADME.md\n",
	})}

	revs, err := a.ListRevisions(context.Background(), "/repo", 50)
	require.NoError(t, err)
	require.Len(t, revs, 2)

	newest := revs[0]
	assert.Equal(t, "aaa111", newest.Key)
	assert.Equal(t, "Alice", newest.AuthorName)
	assert.Equal(t, "alice@example.com", newest.AuthorEmail)
	assert.Equal(t, int64(1700000100), newest.Date)
	assert.Equal(t, "Add analyzer", newest.Message)
	assert.Equal(t, []string{"src/a.py"}, newest.AddedFiles)
	assert.Equal(t, []string{"src/b.py"}, newest.ModifiedFiles)
	assert.Equal(t, []string{"README.md", "src/a.py", "src/b.py"}, newest.TrackedFiles)

	oldest := revs[1]
	assert.Equal(t, "bbb222", oldest.Key)
	assert.Equal(t, []string{"src/b.py"}, oldest.AddedFiles)
	assert.Equal(t, []string{"src/old.py"}, oldest.DeletedFiles)
	// Walking backwards: a.py was not yet added, old.py still existed.
	assert.Equal(t, []string{"README.md", "src/b.py", "src/old.py"}, oldest.TrackedFiles)
}

func TestListRevisionsDirtyWorktree(t *testing.T) {
	a := &LocalArchiver{run: fakeRunner(t, map[string]string{
		"status": " M src/a.py\n?? notes.txt\n",
	})}

	_, err := a.ListRevisions(context.Background(), "/repo", 50)
	var dirtyErr *schema.DirtyWorktreeError
	require.ErrorAs(t, err, &dirtyErr)
	assert.Equal(t, []string{"src/a.py", "notes.txt"}, dirtyErr.Files)
}

func TestListRevisionsEmptyLog(t *testing.T) {
	a := &LocalArchiver{run: fakeRunner(t, map[string]string{
		"status": "",
		"log":    "",
	})}

	revs, err := a.ListRevisions(context.Background(), "/repo", 50)
	require.NoError(t, err)
	assert.Empty(t, revs)
}

func TestListRevisionsMalformedHeader(t *testing.T) {
	a := &LocalArchiver{run: fakeRunner(t, map[string]string{
		"status": "",
		"log":    "\x1e" + "only-a-hash\n",
	})}

	_, err := a.ListRevisions(context.Background(), "/repo", 50)
	var vcsErr *schema.VcsError
	require.ErrorAs(t, err, &vcsErr)
	assert.Equal(t, "log", vcsErr.Op)
}

func TestFind(t *testing.T) {
	a := &LocalArchiver{run: fakeRunner(t, map[string]string{
		"rev-parse": "aaa111\n",
		"log":       "\x1e" + "aaa111\x00Alice\x00alice@example.com\x001700000100\x00Add analyzer\n",
	})}

	rev, err := a.Find(context.Background(), "/repo", "aaa1")
	require.NoError(t, err)
	assert.Equal(t, "aaa111", rev.Key)
	assert.Equal(t, "Add analyzer", rev.Message)
}

func TestFindUnknownPrefix(t *testing.T) {
	a := &LocalArchiver{run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return nil, errors.New("unknown revision or path not in the working tree")
	}}

	_, err := a.Find(context.Background(), "/repo", "zzzz")
	var notFound *schema.RevisionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "zzzz", notFound.Ref)
}

func TestCheckoutErrorWrapping(t *testing.T) {
	a := &LocalArchiver{run: func(_ context.Context, _ string, args ...string) ([]byte, error) {
		return nil, errors.New("pathspec did not match")
	}}

	err := a.Checkout(context.Background(), "/repo", "deadbeef")
	var vcsErr *schema.VcsError
	require.ErrorAs(t, err, &vcsErr)
	assert.Equal(t, "checkout", vcsErr.Op)
}
