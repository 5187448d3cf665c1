// Package diffview renders a diff snapshot and its review state as one
// flattened, navigable document. The document is pure geometry: it is
// re-derived from the diff files and the session on every query, so there
// is no cached layout to invalidate when comments or reviewed flags change.
package diffview

import (
	"strings"

	"github.com/colonyops/redline/internal/core/diff"
	"github.com/colonyops/redline/internal/core/review"
)

// SpanKind identifies what a flattened document line belongs to.
type SpanKind int

const (
	SpanFileHeader SpanKind = iota
	SpanFileComment
	SpanPlaceholder // "(binary file)" or "(no changes)"
	SpanHunkHeader
	SpanDiffLine
	SpanLineComment
	SpanSpacing
)

// Span is a run of consecutive document lines that belong to one element.
// Diff lines and headers are height 1; comment blocks span their full box.
type Span struct {
	Kind   SpanKind
	Offset int // first document line of this span
	Height int

	File int // index into the document's files
	Hunk int // valid for SpanHunkHeader, SpanDiffLine, SpanLineComment
	Line int // line index within the hunk, valid for SpanDiffLine, SpanLineComment

	// Comment spans only.
	Comment      *review.Comment
	CommentIndex int         // index among comments on the same target and side
	Side         review.Side // SideNone for file comments
	TargetLine   int         // source line a line comment is anchored to
}

// Document lays out diff files and review state in a single line space.
//
// Layout per file: header, file comment blocks, then either a placeholder
// line (binary or hunkless files) or hunks (header followed by diff lines,
// each trailed by its comment blocks, old side before new side), then one
// spacing line. A reviewed file collapses to its header line alone.
type Document struct {
	files   []diff.File
	session *review.Session
}

// NewDocument builds a document over the given snapshot and session. Both
// are referenced, not copied; mutations to the session are visible to
// subsequent queries.
func NewDocument(files []diff.File, session *review.Session) *Document {
	return &Document{files: files, session: session}
}

// Files returns the underlying diff snapshot.
func (d *Document) Files() []diff.File { return d.files }

// FileCount returns the number of files in the snapshot.
func (d *Document) FileCount() int { return len(d.files) }

// commentHeight is the number of document lines a comment block occupies:
// a header line, one line per content line, and a footer line.
func commentHeight(c review.Comment) int {
	return 2 + strings.Count(c.Content, "\n") + 1
}

func (d *Document) fileReview(i int) *review.FileReview {
	fr, _ := d.session.File(d.files[i].DisplayPath())
	return fr // nil when the path has no review entry yet
}

// FileHeight returns the number of document lines file i occupies,
// counting comment blocks at their rendered size.
func (d *Document) FileHeight(i int) int {
	f := &d.files[i]
	fr := d.fileReview(i)

	if fr != nil && fr.Reviewed {
		return 1
	}

	h := 1 // header
	if fr != nil {
		for _, c := range fr.FileComments {
			h += commentHeight(c)
		}
	}

	if f.IsBinary || len(f.Hunks) == 0 {
		h++
	} else {
		for _, hunk := range f.Hunks {
			h++ // hunk header
			for _, line := range hunk.Lines {
				h++
				h += d.lineCommentsHeight(fr, line)
			}
		}
	}

	return h + 1 // spacing
}

func (d *Document) lineCommentsHeight(fr *review.FileReview, line diff.Line) int {
	if fr == nil {
		return 0
	}
	h := 0
	if line.OldLine > 0 {
		for _, c := range fr.SideComments(line.OldLine, review.SideOld) {
			h += commentHeight(c)
		}
	}
	if line.NewLine > 0 {
		for _, c := range fr.SideComments(line.NewLine, review.SideNew) {
			h += commentHeight(c)
		}
	}
	return h
}

// FileOffset returns the document line of file i's header.
func (d *Document) FileOffset(i int) int {
	offset := 0
	for j := 0; j < i && j < len(d.files); j++ {
		offset += d.FileHeight(j)
	}
	return offset
}

// TotalLines returns the height of the whole document.
func (d *Document) TotalLines() int {
	total := 0
	for i := range d.files {
		total += d.FileHeight(i)
	}
	return total
}

// FileIndexAt returns the file containing document line pos. Positions past
// the end map to the last file; an empty document maps to 0.
func (d *Document) FileIndexAt(pos int) int {
	cumulative := 0
	for i := range d.files {
		cumulative += d.FileHeight(i)
		if cumulative > pos {
			return i
		}
	}
	if len(d.files) == 0 {
		return 0
	}
	return len(d.files) - 1
}

// ApproxFileHeight estimates file i's height without resolving comments:
// header plus spacing plus raw hunk content. Reviewed files are 1. Cursor
// positions remembered across a reload are captured in this coarser space
// so they survive comment-count changes between snapshots.
func (d *Document) ApproxFileHeight(i int) int {
	f := &d.files[i]
	if fr := d.fileReview(i); fr != nil && fr.Reviewed {
		return 1
	}
	content := 0
	for _, h := range f.Hunks {
		content += 1 + len(h.Lines)
	}
	if content < 1 {
		content = 1
	}
	return 2 + content
}

// ApproxFileOffset returns the cumulative approximate offset of file i.
func (d *Document) ApproxFileOffset(i int) int {
	offset := 0
	for j := 0; j < i && j < len(d.files); j++ {
		offset += d.ApproxFileHeight(j)
	}
	return offset
}

// Walk visits every span in document order. Returning false stops the walk.
func (d *Document) Walk(fn func(Span) bool) {
	offset := 0
	for i := range d.files {
		if !d.walkFile(i, offset, fn) {
			return
		}
		offset += d.FileHeight(i)
	}
}

// walkFile emits file i's spans starting at offset. Returns false if the
// callback stopped the walk.
func (d *Document) walkFile(i, offset int, fn func(Span) bool) bool {
	f := &d.files[i]
	fr := d.fileReview(i)

	emit := func(s Span) bool {
		s.File = i
		s.Offset = offset
		if s.Height == 0 {
			s.Height = 1
		}
		offset += s.Height
		return fn(s)
	}

	if !emit(Span{Kind: SpanFileHeader}) {
		return false
	}
	if fr != nil && fr.Reviewed {
		return true
	}

	if fr != nil {
		for ci := range fr.FileComments {
			c := &fr.FileComments[ci]
			if !emit(Span{Kind: SpanFileComment, Height: commentHeight(*c), Comment: c, CommentIndex: ci, Side: review.SideNone}) {
				return false
			}
		}
	}

	if f.IsBinary || len(f.Hunks) == 0 {
		if !emit(Span{Kind: SpanPlaceholder}) {
			return false
		}
	} else {
		for hi := range f.Hunks {
			if !emit(Span{Kind: SpanHunkHeader, Hunk: hi}) {
				return false
			}
			for li := range f.Hunks[hi].Lines {
				line := f.Hunks[hi].Lines[li]
				if !emit(Span{Kind: SpanDiffLine, Hunk: hi, Line: li}) {
					return false
				}
				if fr == nil {
					continue
				}
				if line.OldLine > 0 {
					if !d.emitSideComments(fr, line.OldLine, review.SideOld, hi, li, emit) {
						return false
					}
				}
				if line.NewLine > 0 {
					if !d.emitSideComments(fr, line.NewLine, review.SideNew, hi, li, emit) {
						return false
					}
				}
			}
		}
	}

	return emit(Span{Kind: SpanSpacing})
}

func (d *Document) emitSideComments(fr *review.FileReview, target int, side review.Side, hi, li int, emit func(Span) bool) bool {
	sideIdx := 0
	for ci := range fr.LineComments[target] {
		c := &fr.LineComments[target][ci]
		if c.EffectiveSide() != side {
			continue
		}
		ok := emit(Span{
			Kind:         SpanLineComment,
			Height:       commentHeight(*c),
			Hunk:         hi,
			Line:         li,
			Comment:      c,
			CommentIndex: sideIdx,
			Side:         side,
			TargetLine:   target,
		})
		if !ok {
			return false
		}
		sideIdx++
	}
	return true
}

// Locate resolves a document line to the span containing it. ok is false
// only when pos lies outside [0, TotalLines).
func (d *Document) Locate(pos int) (Span, bool) {
	if pos < 0 {
		return Span{}, false
	}

	offset := 0
	for i := range d.files {
		h := d.FileHeight(i)
		if pos >= offset+h {
			offset += h
			continue
		}

		var found Span
		ok := false
		d.walkFile(i, offset, func(s Span) bool {
			if pos >= s.Offset && pos < s.Offset+s.Height {
				found = s
				ok = true
				return false
			}
			return true
		})
		return found, ok
	}
	return Span{}, false
}

// LineAt returns the diff line under pos, if pos is on one.
func (d *Document) LineAt(pos int) (diff.Line, bool) {
	s, ok := d.Locate(pos)
	if !ok || s.Kind != SpanDiffLine {
		return diff.Line{}, false
	}
	return d.files[s.File].Hunks[s.Hunk].Lines[s.Line], true
}

// TargetAt returns the source line number and side a comment placed at pos
// would attach to. Lines present in the new version anchor to the new
// side; deletions anchor to the old side.
func (d *Document) TargetAt(pos int) (int, review.Side, bool) {
	line, ok := d.LineAt(pos)
	if !ok {
		return 0, review.SideNone, false
	}
	if line.NewLine > 0 {
		return line.NewLine, review.SideNew, true
	}
	if line.OldLine > 0 {
		return line.OldLine, review.SideOld, true
	}
	return 0, review.SideNone, false
}

// CommentAt returns the comment whose block contains pos, if any.
func (d *Document) CommentAt(pos int) (Span, bool) {
	s, ok := d.Locate(pos)
	if !ok || (s.Kind != SpanFileComment && s.Kind != SpanLineComment) {
		return Span{}, false
	}
	return s, true
}

// DeleteCommentAt removes the comment whose block contains pos. Returns
// false when pos is not inside a comment block.
func (d *Document) DeleteCommentAt(pos int) bool {
	s, ok := d.CommentAt(pos)
	if !ok {
		return false
	}

	fr, ok := d.session.File(d.files[s.File].DisplayPath())
	if !ok {
		return false
	}

	if s.Kind == SpanFileComment {
		return fr.RemoveFileComment(s.CommentIndex)
	}
	return fr.RemoveLineComment(s.TargetLine, s.Side, s.CommentIndex)
}

// NextHunkOffset returns the document line of the first hunk header after
// pos. ok is false when no hunk header follows.
func (d *Document) NextHunkOffset(pos int) (int, bool) {
	result, ok := 0, false
	d.Walk(func(s Span) bool {
		if s.Kind == SpanHunkHeader && s.Offset > pos {
			result, ok = s.Offset, true
			return false
		}
		return true
	})
	return result, ok
}

// PrevHunkOffset returns the document line of the last hunk header before
// pos. ok is false when no hunk header precedes.
func (d *Document) PrevHunkOffset(pos int) (int, bool) {
	result, ok := 0, false
	d.Walk(func(s Span) bool {
		if s.Offset >= pos {
			return false
		}
		if s.Kind == SpanHunkHeader {
			result, ok = s.Offset, true
		}
		return true
	})
	return result, ok
}
