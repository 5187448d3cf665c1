package gitio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/diff"
)

// fakeExecutor returns canned output keyed by the git subcommand and records
// every invocation.
type fakeExecutor struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (f *fakeExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return f.RunDir(ctx, "", cmd, args...)
}

func (f *fakeExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{cmd}, args...))
	key := args[0]
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return []byte(f.outputs[key]), nil
}

const trackedDiff = `diff --git a/a.go b/a.go
index 1111111..2222222 100644
--- a/a.go
+++ b/a.go
@@ -1 +1 @@
-old
+new
`

func newTestProvider(t *testing.T, exec *fakeExecutor, exclude []string, opts DiffOptions) *Provider {
	t.Helper()
	return NewProvider(t.TempDir(), "git", exec, exclude, opts)
}

func TestChangesUncommitted(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{"diff": trackedDiff}}
	p := newTestProvider(t, exec, nil, DiffOptions{Mode: DiffUncommitted})

	files, err := p.Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.go", files[0].Path)

	// Uncommitted mode diffs against HEAD and lists untracked files.
	require.Len(t, exec.calls, 2)
	assert.Equal(t, []string{"git", "diff", "HEAD"}, exec.calls[0])
	assert.Equal(t, []string{"git", "ls-files", "--others", "--exclude-standard"}, exec.calls[1])
}

func TestChangesStaged(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{"diff": trackedDiff}}
	p := newTestProvider(t, exec, nil, DiffOptions{Mode: DiffStaged})

	_, err := p.Changes(context.Background())
	require.NoError(t, err)

	// Staged mode never synthesizes untracked files.
	require.Len(t, exec.calls, 1)
	assert.Equal(t, []string{"git", "diff", "--staged"}, exec.calls[0])
}

func TestChangesBranch(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{"diff": trackedDiff}}
	p := newTestProvider(t, exec, nil, DiffOptions{Mode: DiffBranch, Base: "main"})

	_, err := p.Changes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "diff", "main...HEAD"}, exec.calls[0])
}

func TestChangesBranchRequiresBase(t *testing.T) {
	p := newTestProvider(t, &fakeExecutor{}, nil, DiffOptions{Mode: DiffBranch})

	_, err := p.Changes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base revision")
}

func TestChangesGitFailure(t *testing.T) {
	exec := &fakeExecutor{errs: map[string]error{"diff": assert.AnError}}
	p := newTestProvider(t, exec, nil, DiffOptions{Mode: DiffUncommitted})

	_, err := p.Changes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git diff")
}

func TestUntrackedFileSynthesis(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "fresh.go"), []byte("package fresh\n\nvar x = 1\n"), 0o644))

	exec := &fakeExecutor{outputs: map[string]string{"ls-files": "fresh.go\n"}}
	p := NewProvider(root, "git", exec, nil, DiffOptions{Mode: DiffUncommitted})

	files, err := p.Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "fresh.go", f.Path)
	assert.Equal(t, diff.StatusUntracked, f.Status)
	require.Len(t, f.Hunks, 1)
	require.Len(t, f.Hunks[0].Lines, 3)

	// Every synthesized line is an addition numbered from 1.
	for i, ln := range f.Hunks[0].Lines {
		assert.Equal(t, diff.OriginAddition, ln.Origin)
		assert.Equal(t, i+1, ln.NewLine)
	}
	assert.Equal(t, "package fresh", f.Hunks[0].Lines[0].Text)
}

func TestUntrackedBinaryFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.bin"), []byte{0x00, 0x01, 0x02}, 0o644))

	exec := &fakeExecutor{outputs: map[string]string{"ls-files": "blob.bin\n"}}
	p := NewProvider(root, "git", exec, nil, DiffOptions{Mode: DiffUncommitted})

	files, err := p.Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, files[0].IsBinary)
	assert.Empty(t, files[0].Hunks)
}

func TestUntrackedUnreadableFileIsPlaceholder(t *testing.T) {
	exec := &fakeExecutor{outputs: map[string]string{"ls-files": "missing.go\n"}}
	p := newTestProvider(t, exec, nil, DiffOptions{Mode: DiffUncommitted})

	files, err := p.Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, files[0].IsBinary)
}

func TestUntrackedLargeFileTruncated(t *testing.T) {
	root := t.TempDir()
	content := strings.Repeat("line\n", maxSyntheticLines+100)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte(content), 0o644))

	exec := &fakeExecutor{outputs: map[string]string{"ls-files": "big.txt\n"}}
	p := NewProvider(root, "git", exec, nil, DiffOptions{Mode: DiffUncommitted})

	files, err := p.Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, maxSyntheticLines, files[0].LineCount())
}

func TestExcludeGlobs(t *testing.T) {
	text := trackedDiff + `diff --git a/vendor/dep/dep.go b/vendor/dep/dep.go
index 1111111..2222222 100644
--- a/vendor/dep/dep.go
+++ b/vendor/dep/dep.go
@@ -1 +1 @@
-x
+y
`
	exec := &fakeExecutor{outputs: map[string]string{"diff": text}}
	p := newTestProvider(t, exec, []string{"vendor/**"}, DiffOptions{Mode: DiffStaged})

	files, err := p.Changes(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.go", files[0].Path)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "uncommitted changes", DiffOptions{}.Describe())
	assert.Equal(t, "staged changes", DiffOptions{Mode: DiffStaged}.Describe())
	assert.Equal(t, "changes vs main", DiffOptions{Mode: DiffBranch, Base: "main"}.Describe())
}
