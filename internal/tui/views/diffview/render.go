package diffview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/redline/internal/core/diff"
	"github.com/colonyops/redline/internal/core/review"
)

const gutterWidth = 4

// RenderWindow renders the document rows visible in nav's viewport, one
// string per row, already truncated to width. The cursor row gets its
// highlight here so callers can join and print directly.
func RenderWindow(doc *Document, nav *Nav, width, height int) []string {
	if width < 1 || height < 1 {
		return nil
	}

	top := nav.Scroll
	bottom := nav.Scroll + height
	rows := make([]string, 0, height)

	doc.Walk(func(s Span) bool {
		if s.Offset >= bottom {
			return false
		}
		if s.Offset+s.Height <= top {
			return true
		}

		lines := renderSpan(doc, s, width, nav.ScrollX)
		for i, line := range lines {
			pos := s.Offset + i
			if pos < top || pos >= bottom {
				continue
			}
			line = ansi.Truncate(line, width, "")
			if pos == nav.Cursor {
				line = cursorStyle.Render(line)
			}
			rows = append(rows, line)
		}
		return true
	})

	return rows
}

func renderSpan(doc *Document, s Span, width, scrollX int) []string {
	f := &doc.Files()[s.File]

	switch s.Kind {
	case SpanFileHeader:
		return []string{renderFileHeader(doc, s.File, f)}
	case SpanFileComment:
		return renderCommentBox(*s.Comment, 0, review.SideNone)
	case SpanPlaceholder:
		text := "(no changes)"
		if f.IsBinary {
			text = "(binary file)"
		}
		return []string{placeholderStyle.Render(text)}
	case SpanHunkHeader:
		return []string{hunkHeaderStyle.Render(f.Hunks[s.Hunk].Header)}
	case SpanDiffLine:
		return []string{renderDiffLine(f.Hunks[s.Hunk].Lines[s.Line], width, scrollX)}
	case SpanLineComment:
		return renderCommentBox(*s.Comment, s.TargetLine, s.Side)
	default: // SpanSpacing
		return []string{""}
	}
}

func renderFileHeader(doc *Document, idx int, f *diff.File) string {
	header := fmt.Sprintf("═══ %s [%s] ═══", f.DisplayPath(), f.Status.Char())

	fr, ok := doc.session.File(f.DisplayPath())
	if ok && fr.Reviewed {
		return fileReviewedStyle.Render(header + " ✓ reviewed")
	}
	if ok && fr.CommentCount() > 0 {
		header += fmt.Sprintf(" (%d comments)", fr.CommentCount())
	}
	return fileHeaderStyle.Render(header)
}

// renderCommentBox draws a comment as a box whose line count matches the
// comment's document height exactly: header, one row per content line,
// footer. Anything else would desync rendering from cursor geometry.
func renderCommentBox(c review.Comment, targetLine int, side review.Side) []string {
	indent := strings.Repeat(" ", gutterWidth*2+3)

	title := "┌─ [" + c.Type.Label() + "]"
	switch {
	case side == review.SideOld:
		title += fmt.Sprintf(" line ~%d", targetLine)
	case targetLine > 0:
		title += fmt.Sprintf(" line %d", targetLine)
	}

	lines := []string{indent + commentBoxStyle.Render(title)}
	for _, content := range strings.Split(c.Content, "\n") {
		lines = append(lines, indent+commentBoxStyle.Render("│ ")+commentContentStyle.Render(content))
	}
	return append(lines, indent+commentBoxStyle.Render("└─"))
}

func renderDiffLine(line diff.Line, width, scrollX int) string {
	oldNo, newNo := "", ""
	if line.OldLine > 0 {
		oldNo = fmt.Sprintf("%d", line.OldLine)
	}
	if line.NewLine > 0 {
		newNo = fmt.Sprintf("%d", line.NewLine)
	}
	gutter := gutterStyle.Render(fmt.Sprintf("%*s %*s │ ", gutterWidth, oldNo, gutterWidth, newNo))

	var style = contextStyle
	switch line.Origin {
	case diff.OriginAddition:
		style = addedStyle
	case diff.OriginDeletion:
		style = removedStyle
	}
	content := style.Render(line.Origin.Prefix() + line.Text)

	if scrollX > 0 {
		content = ansi.Cut(content, scrollX, scrollX+width)
	}
	return gutter + content
}
