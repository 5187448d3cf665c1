package gitio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/colonyops/redline/internal/core/diff"
	"github.com/colonyops/redline/pkg/executil"
)

// DiffMode specifies which set of pending changes to review.
type DiffMode int

const (
	// DiffUncommitted covers all uncommitted changes (working tree + staged).
	DiffUncommitted DiffMode = iota
	// DiffStaged covers only staged changes.
	DiffStaged
	// DiffBranch covers changes between a base revision's merge base and HEAD.
	DiffBranch
)

// DiffOptions selects the diff mode and, for DiffBranch, the base revision.
type DiffOptions struct {
	Mode DiffMode
	Base string
}

// Describe returns a human-readable description of the diff selection.
func (o DiffOptions) Describe() string {
	switch o.Mode {
	case DiffStaged:
		return "staged changes"
	case DiffBranch:
		return fmt.Sprintf("changes vs %s", o.Base)
	default:
		return "uncommitted changes"
	}
}

// maxSyntheticLines caps the size of hunks synthesized for untracked files
// so a stray generated file cannot blow up the view.
const maxSyntheticLines = 5000

// Provider produces diff snapshots for one repository. It is safe to call
// Changes repeatedly; each call returns a fresh, independent snapshot.
type Provider struct {
	root    string
	gitPath string
	exec    executil.Executor
	exclude []string
	opts    DiffOptions
}

// NewProvider creates a provider rooted at the repository's working tree.
// Files whose path matches any exclude glob (doublestar patterns, e.g.
// "vendor/**") are dropped from every snapshot.
func NewProvider(root, gitPath string, exec executil.Executor, exclude []string, opts DiffOptions) *Provider {
	return &Provider{
		root:    root,
		gitPath: gitPath,
		exec:    exec,
		exclude: exclude,
		opts:    opts,
	}
}

// Changes returns the current diff snapshot: parsed tracked changes plus,
// in uncommitted mode, untracked files rendered as additions.
func (p *Provider) Changes(ctx context.Context) ([]diff.File, error) {
	var args []string
	switch p.opts.Mode {
	case DiffStaged:
		args = []string{"diff", "--staged"}
	case DiffBranch:
		if p.opts.Base == "" {
			return nil, fmt.Errorf("base revision required for branch diff")
		}
		args = []string{"diff", p.opts.Base + "...HEAD"}
	default:
		args = []string{"diff", "HEAD"}
	}

	out, err := p.exec.RunDir(ctx, p.root, p.gitPath, args...)
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}

	files, err := diff.Parse(string(out))
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	if p.opts.Mode == DiffUncommitted {
		untracked, err := p.untrackedFiles(ctx)
		if err != nil {
			return nil, err
		}
		files = append(files, untracked...)
	}

	return p.filterExcluded(files), nil
}

// untrackedFiles lists files git does not know about yet and synthesizes
// an all-additions file entry for each, so new files are reviewable before
// they are staged.
func (p *Provider) untrackedFiles(ctx context.Context) ([]diff.File, error) {
	out, err := p.exec.RunDir(ctx, p.root, p.gitPath, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var files []diff.File
	for _, path := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if path == "" {
			continue
		}
		files = append(files, p.syntheticFile(path))
	}
	return files, nil
}

// syntheticFile builds a diff.File for an untracked path. Unreadable or
// binary content yields a binary placeholder entry instead of hunks.
func (p *Provider) syntheticFile(path string) diff.File {
	f := diff.File{Path: path, Status: diff.StatusUntracked}

	content, err := os.ReadFile(filepath.Join(p.root, path))
	if err != nil || bytes.IndexByte(content, 0) != -1 {
		f.IsBinary = true
		return f
	}

	lines := strings.Split(string(content), "\n")
	// Split leaves a trailing empty element when the file ends in a newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return f
	}
	if len(lines) > maxSyntheticLines {
		lines = lines[:maxSyntheticLines]
	}

	hunk := diff.Hunk{Header: fmt.Sprintf("@@ -0,0 +1,%d @@ (untracked)", len(lines))}
	for i, text := range lines {
		hunk.Lines = append(hunk.Lines, diff.Line{
			Origin:  diff.OriginAddition,
			NewLine: i + 1,
			Text:    text,
		})
	}
	f.Hunks = []diff.Hunk{hunk}
	return f
}

func (p *Provider) filterExcluded(files []diff.File) []diff.File {
	if len(p.exclude) == 0 {
		return files
	}

	kept := files[:0]
	for _, f := range files {
		if !p.excluded(f.DisplayPath()) {
			kept = append(kept, f)
		}
	}
	return kept
}

func (p *Provider) excluded(path string) bool {
	for _, pattern := range p.exclude {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(path)); err == nil && ok {
			return true
		}
	}
	return false
}
