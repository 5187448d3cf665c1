package stores

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/review"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	sess := review.NewSession("deadbeef")
	sess.Summary = "looks good"
	fr := sess.EnsureFile("a.go")
	fr.Reviewed = true
	fr.AddLineComment(3, review.NewComment("check this", review.CommentIssue, review.SideNew))

	path, err := store.Save("/repo/one", sess)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, ok, err := store.Load("/repo/one")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "deadbeef", loaded.BaseRevision)
	assert.Equal(t, "looks good", loaded.Summary)
	assert.True(t, loaded.Reviewed("a.go"))

	comments := loaded.Files["a.go"].SideComments(3, review.SideNew)
	require.Len(t, comments, 1)
	assert.Equal(t, "check this", comments[0].Content)
}

func TestLoadMissingSession(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	sess, ok, err := store.Load("/nowhere")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStore(dir)

	_, err := store.Save("/repo", review.NewSession("head"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path("/repo"), []byte("{not json"), 0o644))

	_, _, err = store.Load("/repo")
	assert.Error(t, err)
}

func TestPathIsStablePerRoot(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	a := store.Path("/repo/a")
	assert.Equal(t, a, store.Path("/repo/a"))
	assert.NotEqual(t, a, store.Path("/repo/b"))
	// Repository paths never leak into the file name.
	assert.NotContains(t, filepath.Base(a), "repo")
}

func TestSaveOverwrites(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	_, err := store.Save("/repo", review.NewSession("rev1"))
	require.NoError(t, err)
	_, err = store.Save("/repo", review.NewSession("rev2"))
	require.NoError(t, err)

	loaded, ok, err := store.Load("/repo")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "rev2", loaded.BaseRevision)
}

func TestDelete(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	_, err := store.Save("/repo", review.NewSession("head"))
	require.NoError(t, err)

	require.NoError(t, store.Delete("/repo"))
	_, ok, err := store.Load("/repo")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing session is fine.
	require.NoError(t, store.Delete("/repo"))
}

func TestList(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	one := review.NewSession("rev1")
	one.EnsureFile("a.go").Reviewed = true
	one.EnsureFile("b.go").AddFileComment(review.NewComment("hm", review.CommentNote, review.SideNone))
	_, err := store.Save("/repo/one", one)
	require.NoError(t, err)

	_, err = store.Save("/repo/two", review.NewSession("rev2"))
	require.NoError(t, err)

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byRoot := map[string]SessionInfo{}
	for _, info := range infos {
		byRoot[info.RepoRoot] = info
	}

	info := byRoot["/repo/one"]
	assert.Equal(t, "rev1", info.BaseRevision)
	assert.Equal(t, 2, info.Files)
	assert.Equal(t, 1, info.Reviewed)
	assert.Equal(t, 1, info.Comments)
	assert.False(t, info.SavedAt.IsZero())
}

func TestListSkipsUnparsableFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewSessionStore(dir)

	_, err := store.Save("/repo", review.NewSession("head"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sessions", "junk.json"), []byte("nope"), 0o644))

	infos, err := store.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestListEmptyStore(t *testing.T) {
	store := NewSessionStore(t.TempDir())

	infos, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, infos)
}
