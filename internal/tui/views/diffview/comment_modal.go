package diffview

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/redline/internal/core/review"
)

// CommentModal handles multi-line comment entry for a file or a diff line.
type CommentModal struct {
	textarea    textarea.Model
	commentType review.CommentType
	target      string // e.g. "file main.go" or "main.go:42"
	line        int
	side        review.Side
	fileLevel   bool
	width       int
	submitted   bool
	cancelled   bool
}

// NewFileCommentModal starts entry of a file-level comment. width is the
// wrap width for the entry area.
func NewFileCommentModal(path string, width int) CommentModal {
	return newCommentModal(fmt.Sprintf("file %s", path), 0, review.SideNone, true, width)
}

// NewLineCommentModal starts entry of a comment anchored to a source line.
func NewLineCommentModal(path string, line int, side review.Side, width int) CommentModal {
	target := fmt.Sprintf("%s:%d", path, line)
	if side == review.SideOld {
		target = fmt.Sprintf("%s:~%d", path, line)
	}
	return newCommentModal(target, line, side, false, width)
}

func newCommentModal(target string, line int, side review.Side, fileLevel bool, width int) CommentModal {
	ta := textarea.New()
	ta.Placeholder = "Enter your comment..."
	ta.Focus()
	ta.SetWidth(max(20, width))
	ta.SetHeight(5)

	return CommentModal{
		textarea:    ta,
		commentType: review.CommentNote,
		target:      target,
		line:        line,
		side:        side,
		fileLevel:   fileLevel,
		width:       width,
	}
}

// Update handles messages.
func (m CommentModal) Update(msg tea.Msg) (CommentModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s", "ctrl+enter":
			if strings.TrimSpace(m.textarea.Value()) != "" {
				m.submitted = true
				return m, nil
			}
		case "tab":
			m.commentType = m.commentType.Next()
			return m, nil
		case "esc":
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the modal content.
func (m CommentModal) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue).
		MarginBottom(1)

	typeStyle := lipgloss.NewStyle().
		Foreground(colorYellow).
		MarginBottom(1)

	helpStyle := lipgloss.NewStyle().
		Foreground(colorGray).
		MarginTop(1)

	return strings.Join([]string{
		titleStyle.Render("Comment on " + m.target),
		typeStyle.Render("[" + m.commentType.Label() + "]"),
		m.textarea.View(),
		helpStyle.Render("ctrl+s: save • tab: type • esc: cancel"),
	}, "\n")
}

// Submitted returns true if the comment was submitted.
func (m CommentModal) Submitted() bool {
	return m.submitted
}

// Cancelled returns true if the modal was cancelled.
func (m CommentModal) Cancelled() bool {
	return m.cancelled
}

// Comment builds the comment from the entered text and selected type.
func (m CommentModal) Comment() review.Comment {
	side := review.SideNone
	if !m.fileLevel {
		side = m.side
	}
	return review.NewComment(strings.TrimSpace(m.textarea.Value()), m.commentType, side)
}

// FileLevel reports whether this comment targets the whole file.
func (m CommentModal) FileLevel() bool {
	return m.fileLevel
}

// Line returns the anchored source line, 0 for file-level comments.
func (m CommentModal) Line() int {
	return m.line
}
