// Package gitio discovers the enclosing git repository and supplies diff
// snapshots of its pending changes. Repository metadata comes from go-git;
// diff text comes from the git CLI, whose output format is the contract the
// parser in internal/core/diff is written against.
package gitio

import (
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNotARepository is returned when no git repository encloses the
// starting directory.
var ErrNotARepository = errors.New("not a git repository")

// RepoInfo describes the discovered repository.
type RepoInfo struct {
	Root      string // absolute path to the working tree root
	Head      string // full HEAD commit hash
	HeadShort string // abbreviated hash for display
	Branch    string // branch name, or short hash when detached
}

// Discover walks up from dir to find the enclosing repository and resolves
// its HEAD.
func Discover(dir string) (*RepoInfo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, ErrNotARepository
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	root, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, fmt.Errorf("resolve worktree root: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	hash := head.Hash().String()
	short := hash
	if len(short) > 7 {
		short = short[:7]
	}

	branch := short
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}

	return &RepoInfo{
		Root:      root,
		Head:      hash,
		HeadShort: short,
		Branch:    branch,
	}, nil
}
