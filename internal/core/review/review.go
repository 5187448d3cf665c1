// Package review holds the review session model: per-file reviewed state,
// typed comments attached to files or source lines, and the export
// traversal used by report generation. The session outlives any single diff
// snapshot and is persisted between runs.
package review

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// CommentType categorizes a comment for the exported report.
type CommentType string

const (
	CommentNote       CommentType = "note"
	CommentSuggestion CommentType = "suggestion"
	CommentIssue      CommentType = "issue"
	CommentPraise     CommentType = "praise"
)

// Label returns the uppercase tag used in rendered output.
func (t CommentType) Label() string {
	switch t {
	case CommentSuggestion:
		return "SUGGESTION"
	case CommentIssue:
		return "ISSUE"
	case CommentPraise:
		return "PRAISE"
	default:
		return "NOTE"
	}
}

// Next cycles to the following comment type, wrapping around.
func (t CommentType) Next() CommentType {
	switch t {
	case CommentNote:
		return CommentSuggestion
	case CommentSuggestion:
		return CommentIssue
	case CommentIssue:
		return CommentPraise
	default:
		return CommentNote
	}
}

// Side anchors a line comment to the pre-change (old) or post-change (new)
// version of a line. File-level comments carry SideNone.
type Side string

const (
	SideNone Side = ""
	SideOld  Side = "old"
	SideNew  Side = "new"
)

// Comment is a single piece of feedback. Content may contain embedded
// newlines. Comments are immutable once created; editing is modeled as
// delete and recreate.
type Comment struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Type      CommentType `json:"type"`
	Side      Side        `json:"side,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewComment creates a comment with a fresh ID.
func NewComment(content string, typ CommentType, side Side) Comment {
	return Comment{
		ID:        uuid.NewString(),
		Content:   content,
		Type:      typ,
		Side:      side,
		CreatedAt: time.Now(),
	}
}

// EffectiveSide resolves the storage side for side-partitioned lookups.
// Comments saved without an explicit side count as new-side.
func (c Comment) EffectiveSide() Side {
	if c.Side == SideOld {
		return SideOld
	}
	return SideNew
}

// FileReview is the per-file review state: the reviewed flag, ordered
// file-level comments, and line comments keyed by source line number.
// Line comments for both sides share one ordered list per line; side
// disambiguation happens at resolution time, not in storage.
type FileReview struct {
	Reviewed     bool              `json:"reviewed"`
	FileComments []Comment         `json:"file_comments,omitempty"`
	LineComments map[int][]Comment `json:"line_comments,omitempty"`
}

// AddFileComment appends a file-level comment. Insertion order is display
// order.
func (fr *FileReview) AddFileComment(c Comment) {
	fr.FileComments = append(fr.FileComments, c)
}

// AddLineComment appends a comment to the given source line, creating the
// line entry if absent.
func (fr *FileReview) AddLineComment(line int, c Comment) {
	if fr.LineComments == nil {
		fr.LineComments = make(map[int][]Comment)
	}
	fr.LineComments[line] = append(fr.LineComments[line], c)
}

// SideComments returns the comments on a source line that resolve to the
// given side, in insertion order. The returned slice shares storage with
// the review; treat it as read-only.
func (fr *FileReview) SideComments(line int, side Side) []Comment {
	var out []Comment
	for _, c := range fr.LineComments[line] {
		if c.EffectiveSide() == side {
			out = append(out, c)
		}
	}
	return out
}

// RemoveFileComment deletes the file-level comment at the given index.
func (fr *FileReview) RemoveFileComment(index int) bool {
	if index < 0 || index >= len(fr.FileComments) {
		return false
	}
	fr.FileComments = append(fr.FileComments[:index], fr.FileComments[index+1:]...)
	return true
}

// RemoveLineComment deletes the sideIndex-th comment on the given side of a
// source line. sideIndex counts only comments resolving to that side; the
// storage index is re-derived here since both sides share one list. The
// line entry is dropped when its last comment goes.
func (fr *FileReview) RemoveLineComment(line int, side Side, sideIndex int) bool {
	comments, ok := fr.LineComments[line]
	if !ok {
		return false
	}

	seen := 0
	for i, c := range comments {
		if c.EffectiveSide() != side {
			continue
		}
		if seen == sideIndex {
			fr.LineComments[line] = append(comments[:i], comments[i+1:]...)
			if len(fr.LineComments[line]) == 0 {
				delete(fr.LineComments, line)
			}
			return true
		}
		seen++
	}
	return false
}

// HasComments reports whether any comment is attached to this file.
func (fr *FileReview) HasComments() bool {
	if len(fr.FileComments) > 0 {
		return true
	}
	for _, cs := range fr.LineComments {
		if len(cs) > 0 {
			return true
		}
	}
	return false
}

// CommentCount returns the total number of comments on this file.
func (fr *FileReview) CommentCount() int {
	n := len(fr.FileComments)
	for _, cs := range fr.LineComments {
		n += len(cs)
	}
	return n
}

// Session is the review state for one working tree. It records the base
// revision it was started against so stale sessions can be detected and
// discarded by the caller.
type Session struct {
	BaseRevision string                 `json:"base_revision"`
	Files        map[string]*FileReview `json:"files"`
	Summary      string                 `json:"summary,omitempty"`
}

// NewSession creates an empty session for the given base revision.
func NewSession(baseRevision string) *Session {
	return &Session{
		BaseRevision: baseRevision,
		Files:        make(map[string]*FileReview),
	}
}

// EnsureFile returns the FileReview for path, creating a default one the
// first time the path is seen. Entries are never removed when a file drops
// out of the current diff, so reviewed state survives transient reloads.
func (s *Session) EnsureFile(path string) *FileReview {
	if s.Files == nil {
		s.Files = make(map[string]*FileReview)
	}
	fr, ok := s.Files[path]
	if !ok {
		fr = &FileReview{}
		s.Files[path] = fr
	}
	return fr
}

// File returns the FileReview for path if one exists.
func (s *Session) File(path string) (*FileReview, bool) {
	fr, ok := s.Files[path]
	return fr, ok
}

// Reviewed reports whether path is marked reviewed.
func (s *Session) Reviewed(path string) bool {
	fr, ok := s.Files[path]
	return ok && fr.Reviewed
}

// ReviewedCount returns how many files are marked reviewed.
func (s *Session) ReviewedCount() int {
	n := 0
	for _, fr := range s.Files {
		if fr.Reviewed {
			n++
		}
	}
	return n
}

// HasComments reports whether any file in the session has comments.
func (s *Session) HasComments() bool {
	for _, fr := range s.Files {
		if fr.HasComments() {
			return true
		}
	}
	return false
}

// CommentCount returns the total number of comments across all files.
func (s *Session) CommentCount() int {
	n := 0
	for _, fr := range s.Files {
		n += fr.CommentCount()
	}
	return n
}

// Paths returns all known file paths in sorted order, for stable export.
func (s *Session) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Walk visits every comment in export order: files sorted by path, each
// file's file-level comments first, then line comments sorted by line
// number, insertion order within a line. Line is 0 and side is SideNone
// for file-level comments.
func (s *Session) Walk(fn func(path string, line int, side Side, c Comment)) {
	for _, path := range s.Paths() {
		fr := s.Files[path]

		for _, c := range fr.FileComments {
			fn(path, 0, SideNone, c)
		}

		lines := make([]int, 0, len(fr.LineComments))
		for ln := range fr.LineComments {
			lines = append(lines, ln)
		}
		sort.Ints(lines)

		for _, ln := range lines {
			for _, c := range fr.LineComments[ln] {
				fn(path, ln, c.Side, c)
			}
		}
	}
}
