package diffview

// Nav tracks the cursor and scroll position over a Document. Every motion
// re-establishes the containment invariant: Scroll <= Cursor and Cursor is
// inside the [Scroll, Scroll+Viewport) window. Mutating operations move
// only the scroll to restore it, never the cursor.
type Nav struct {
	Cursor      int
	Scroll      int
	ScrollX     int
	Viewport    int // set by the view during layout
	CurrentFile int
}

func (n *Nav) viewport() int {
	if n.Viewport < 1 {
		return 1
	}
	return n.Viewport
}

// EnsureVisible moves the scroll so the cursor lies inside the viewport.
func (n *Nav) EnsureVisible() {
	if n.Cursor < n.Scroll {
		n.Scroll = n.Cursor
	}
	if n.Cursor >= n.Scroll+n.viewport() {
		n.Scroll = n.Cursor - n.viewport() + 1
	}
}

// Center scrolls so the cursor sits in the middle of the viewport.
func (n *Nav) Center() {
	n.Scroll = max(0, n.Cursor-n.viewport()/2)
}

func (n *Nav) clampCursor(doc *Document) {
	if maxLine := doc.TotalLines() - 1; n.Cursor > maxLine {
		n.Cursor = max(0, maxLine)
	}
	if n.Cursor < 0 {
		n.Cursor = 0
	}
}

func (n *Nav) syncFile(doc *Document) {
	n.CurrentFile = doc.FileIndexAt(n.Cursor)
}

// CursorDown moves the cursor down by lines, clamped to the last document
// line.
func (n *Nav) CursorDown(doc *Document, lines int) {
	n.Cursor += lines
	n.clampCursor(doc)
	n.EnsureVisible()
	n.syncFile(doc)
}

// CursorUp moves the cursor up by lines, clamped to the first line.
func (n *Nav) CursorUp(doc *Document, lines int) {
	n.Cursor = max(0, n.Cursor-lines)
	n.EnsureVisible()
	n.syncFile(doc)
}

// ScrollDown moves cursor and scroll together for page motions.
func (n *Nav) ScrollDown(doc *Document, lines int) {
	maxLine := max(0, doc.TotalLines()-1)
	n.Cursor = min(n.Cursor+lines, maxLine)
	n.Scroll = min(n.Scroll+lines, maxLine)
	n.EnsureVisible()
	n.syncFile(doc)
}

// ScrollUp moves cursor and scroll together for page motions.
func (n *Nav) ScrollUp(doc *Document, lines int) {
	n.Cursor = max(0, n.Cursor-lines)
	n.Scroll = max(0, n.Scroll-lines)
	n.EnsureVisible()
	n.syncFile(doc)
}

// ScrollLeft shifts the horizontal offset toward column zero.
func (n *Nav) ScrollLeft(cols int) {
	n.ScrollX = max(0, n.ScrollX-cols)
}

// ScrollRight shifts the horizontal offset further right.
func (n *Nav) ScrollRight(cols int) {
	n.ScrollX += cols
}

// JumpToFile places the cursor on file idx's header with the header at the
// top of the viewport.
func (n *Nav) JumpToFile(doc *Document, idx int) {
	if idx < 0 || idx >= doc.FileCount() {
		return
	}
	n.CurrentFile = idx
	n.Cursor = doc.FileOffset(idx)
	n.Scroll = n.Cursor
}

// NextFile jumps to the following file, staying put on the last one.
func (n *Nav) NextFile(doc *Document) {
	n.JumpToFile(doc, min(n.CurrentFile+1, doc.FileCount()-1))
}

// PrevFile jumps to the preceding file, staying put on the first one.
func (n *Nav) PrevFile(doc *Document) {
	n.JumpToFile(doc, max(0, n.CurrentFile-1))
}

// NextHunk moves the cursor to the next hunk header after it, if any.
func (n *Nav) NextHunk(doc *Document) {
	if pos, ok := doc.NextHunkOffset(n.Cursor); ok {
		n.Cursor = pos
		n.EnsureVisible()
		n.syncFile(doc)
	}
}

// PrevHunk moves the cursor to the previous hunk header, or to the top of
// the document when none precedes it.
func (n *Nav) PrevHunk(doc *Document) {
	pos, ok := doc.PrevHunkOffset(n.Cursor)
	if !ok {
		pos = 0
	}
	n.Cursor = pos
	n.EnsureVisible()
	n.syncFile(doc)
}

// MoveToFileHeader puts the cursor on the current file's header without
// touching the scroll beyond visibility. Used after collapsing a file so
// the cursor cannot be left pointing into content that no longer exists.
func (n *Nav) MoveToFileHeader(doc *Document) {
	n.Cursor = doc.FileOffset(n.CurrentFile)
	n.EnsureVisible()
}

// ReloadMark captures where the cursor was before a snapshot reload. The
// file-relative offset is taken in approximate (comment-free) space so a
// changed comment count between snapshots cannot skew the restore; the
// viewport offset preserves where on screen the cursor sat.
type ReloadMark struct {
	Path        string
	FileIdx     int
	RelLine     int
	ViewportOff int
}

// Mark records the restore point against the current document.
func (n *Nav) Mark(doc *Document) ReloadMark {
	m := ReloadMark{
		FileIdx:     n.CurrentFile,
		ViewportOff: max(0, n.Cursor-n.Scroll),
	}
	if n.CurrentFile < doc.FileCount() {
		m.Path = doc.Files()[n.CurrentFile].DisplayPath()
		m.RelLine = max(0, n.Cursor-doc.ApproxFileOffset(n.CurrentFile))
	}
	return m
}

// Restore re-positions the cursor in a freshly built document: same file
// by path when it still exists, otherwise the clamped previous index. The
// file-relative offset is clamped to the new exact height, and the scroll
// is chosen so the cursor lands on the same viewport row as before.
func (n *Nav) Restore(doc *Document, m ReloadMark) {
	if doc.FileCount() == 0 {
		n.Cursor, n.Scroll, n.CurrentFile = 0, 0, 0
		return
	}

	target := min(m.FileIdx, doc.FileCount()-1)
	if m.Path != "" {
		for i, f := range doc.Files() {
			if f.DisplayPath() == m.Path {
				target = i
				break
			}
		}
	}

	n.JumpToFile(doc, target)
	n.Cursor = doc.FileOffset(target) + min(m.RelLine, doc.FileHeight(target)-1)

	viewportOff := min(m.ViewportOff, n.viewport()-1)
	maxScroll := max(0, doc.TotalLines()-1)
	n.Scroll = min(max(0, n.Cursor-viewportOff), maxScroll)

	n.EnsureVisible()
	n.syncFile(doc)
}
