package diffview

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/diff"
	"github.com/colonyops/redline/internal/core/gitio"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/stores"
)

const fileListWidth = 32

// FocusedPanel identifies which pane receives navigation keys.
type FocusedPanel int

const (
	PanelFileList FocusedPanel = iota
	PanelDiff
)

type messageKind int

const (
	messageInfo messageKind = iota
	messageWarn
	messageError
)

type statusMessage struct {
	text string
	kind messageKind
}

type reloadedMsg struct {
	files []diff.File
	err   error
}

type savedMsg struct {
	quitAfter bool
	err       error
}

type clippedMsg struct {
	quitAfter bool
	err       error
}

type exportedMsg struct {
	path string
	err  error
}

// Model is the diff review view: a file list pane, the flattened diff
// document pane, a status bar, and the modal overlays.
type Model struct {
	log      zerolog.Logger
	cfg      config.TUIConfig
	repo     *gitio.RepoInfo
	provider *gitio.Provider
	store    *stores.SessionStore

	session *review.Session
	doc     *Document
	nav     Nav

	focused    FocusedPanel
	cmdActive  bool
	cmdBuffer  string
	pendingKey string

	commentModal *CommentModal
	confirmModal *ConfirmModal
	helpModal    *HelpModal

	message *statusMessage
	dirty   bool
	width   int
	height  int
}

// New builds the review view over an initial snapshot.
func New(
	log zerolog.Logger,
	cfg config.TUIConfig,
	repo *gitio.RepoInfo,
	provider *gitio.Provider,
	store *stores.SessionStore,
	session *review.Session,
	files []diff.File,
) Model {
	for _, f := range files {
		session.EnsureFile(f.DisplayPath())
	}
	return Model{
		log:      log,
		cfg:      cfg,
		repo:     repo,
		provider: provider,
		store:    store,
		session:  session,
		doc:      NewDocument(files, session),
		focused:  PanelDiff,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the layout. One row is reserved for the status bar.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.nav.Viewport = max(1, height-1)
	m.nav.EnsureVisible()
}

// Dirty reports whether the session has unsaved changes.
func (m Model) Dirty() bool {
	return m.dirty
}

// Session exposes the review session, primarily for the parent model.
func (m Model) Session() *review.Session {
	return m.session
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case reloadedMsg:
		return m.applyReload(msg)

	case savedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("save failed: %v", msg.err))
			return m, nil
		}
		m.dirty = false
		m.setInfo("Session saved")
		if msg.quitAfter {
			return m, tea.Quit
		}
		return m, nil

	case clippedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("clipboard failed: %v", msg.err))
			return m, nil
		}
		m.setInfo("Report copied to clipboard")
		if msg.quitAfter {
			return m, tea.Quit
		}
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("export failed: %v", msg.err))
			return m, nil
		}
		m.setInfo("Report written to " + msg.path)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Modal overlays swallow all keys while open.
	if m.commentModal != nil {
		return m.updateCommentModal(msg)
	}
	if m.confirmModal != nil {
		return m.updateConfirmModal(msg)
	}
	if m.helpModal != nil {
		updated, cmd := m.helpModal.Update(msg)
		if updated.Dismissed() {
			m.helpModal = nil
		} else {
			m.helpModal = &updated
		}
		return m, cmd
	}
	if m.cmdActive {
		return m.handleCommandKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) updateCommentModal(msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.commentModal.Update(msg)
	switch {
	case updated.Submitted():
		m.applyComment(updated)
		m.commentModal = nil
	case updated.Cancelled():
		m.commentModal = nil
	default:
		m.commentModal = &updated
	}
	return m, cmd
}

func (m *Model) applyComment(modal CommentModal) {
	path, ok := m.currentPath()
	if !ok {
		return
	}
	fr := m.session.EnsureFile(path)
	c := modal.Comment()

	if modal.FileLevel() {
		fr.AddFileComment(c)
		m.setInfo("File comment added")
	} else {
		fr.AddLineComment(modal.Line(), c)
		m.setInfo(fmt.Sprintf("Comment added to line %d", modal.Line()))
	}
	m.dirty = true
	m.nav.EnsureVisible()
}

func (m Model) updateConfirmModal(msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.confirmModal.Update(msg)
	switch {
	case updated.Confirmed():
		m.confirmModal = nil
		return m, tea.Quit
	case updated.Cancelled():
		m.confirmModal = nil
	default:
		m.confirmModal = &updated
	}
	return m, cmd
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	m.message = nil

	// Two-key sequences: zz centers, dd deletes.
	if m.pendingKey != "" {
		pending := m.pendingKey
		m.pendingKey = ""
		switch {
		case pending == "z" && key == "z":
			m.nav.Center()
			return m, nil
		case pending == "d" && key == "d":
			if m.doc.DeleteCommentAt(m.nav.Cursor) {
				m.dirty = true
				m.setInfo("Comment deleted")
				m.nav.clampCursor(m.doc)
				m.nav.EnsureVisible()
			}
			return m, nil
		}
		// fall through and treat key normally
	}

	switch key {
	case "q":
		return m.requestQuit()
	case ":":
		m.cmdActive = true
		m.cmdBuffer = ""
		return m, nil
	case "?":
		modal := NewHelpModal()
		m.helpModal = &modal
		return m, nil
	case "tab":
		if m.focused == PanelDiff {
			m.focused = PanelFileList
		} else {
			m.focused = PanelDiff
		}
		return m, nil
	case "z", "d":
		m.pendingKey = key
		return m, nil
	}

	if m.focused == PanelFileList {
		return m.handleFileListKey(key)
	}
	return m.handleDiffKey(key)
}

func (m Model) handleFileListKey(key string) (Model, tea.Cmd) {
	switch key {
	case "j", "down":
		m.nav.JumpToFile(m.doc, min(m.nav.CurrentFile+1, m.doc.FileCount()-1))
	case "k", "up":
		m.nav.JumpToFile(m.doc, max(0, m.nav.CurrentFile-1))
	case "enter":
		m.focused = PanelDiff
	case "r":
		m.toggleReviewed()
	}
	return m, nil
}

func (m Model) handleDiffKey(key string) (Model, tea.Cmd) {
	switch key {
	case "j", "down":
		m.nav.CursorDown(m.doc, 1)
	case "k", "up":
		m.nav.CursorUp(m.doc, 1)
	case "ctrl+d":
		m.nav.ScrollDown(m.doc, m.cfg.HalfPage)
	case "ctrl+u":
		m.nav.ScrollUp(m.doc, m.cfg.HalfPage)
	case "ctrl+f":
		m.nav.ScrollDown(m.doc, m.cfg.FullPage)
	case "ctrl+b":
		m.nav.ScrollUp(m.doc, m.cfg.FullPage)
	case "g":
		m.nav.Cursor = 0
		m.nav.Scroll = 0
		m.nav.syncFile(m.doc)
	case "G":
		m.nav.Cursor = max(0, m.doc.TotalLines()-1)
		m.nav.EnsureVisible()
		m.nav.syncFile(m.doc)
	case "h", "left":
		m.nav.ScrollLeft(m.cfg.HScrollStep)
	case "l", "right":
		m.nav.ScrollRight(m.cfg.HScrollStep)
	case "{":
		m.nav.PrevFile(m.doc)
	case "}":
		m.nav.NextFile(m.doc)
	case "[":
		m.nav.PrevHunk(m.doc)
	case "]":
		m.nav.NextHunk(m.doc)
	case "r":
		m.toggleReviewed()
	case "c":
		m.openLineComment()
	case "C":
		m.openFileComment()
	}
	return m, nil
}

func (m *Model) toggleReviewed() {
	path, ok := m.currentPath()
	if !ok {
		return
	}
	fr := m.session.EnsureFile(path)
	fr.Reviewed = !fr.Reviewed
	m.dirty = true
	// The file may have collapsed under the cursor; pin it to the header.
	m.nav.MoveToFileHeader(m.doc)
}

func (m *Model) openLineComment() {
	path, ok := m.currentPath()
	if !ok {
		return
	}
	line, side, ok := m.doc.TargetAt(m.nav.Cursor)
	if !ok {
		m.setWarning("Cursor is not on a diff line")
		return
	}
	modal := NewLineCommentModal(path, line, side, m.commentWidth())
	m.commentModal = &modal
}

func (m *Model) openFileComment() {
	path, ok := m.currentPath()
	if !ok {
		return
	}
	modal := NewFileCommentModal(path, m.commentWidth())
	m.commentModal = &modal
}

// commentWidth is the entry wrap width: the configured comment line width,
// narrowed on small terminals.
func (m Model) commentWidth() int {
	return min(m.cfg.CommentLineWidth, max(20, m.width-10))
}

func (m Model) currentPath() (string, bool) {
	files := m.doc.Files()
	if m.nav.CurrentFile >= len(files) {
		return "", false
	}
	return files[m.nav.CurrentFile].DisplayPath(), true
}

func (m Model) requestQuit() (Model, tea.Cmd) {
	if !m.dirty {
		return m, tea.Quit
	}
	modal := NewConfirmModal("Unsaved changes. Quit without saving?")
	m.confirmModal = &modal
	return m, nil
}

// Command mode

func (m Model) handleCommandKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cmdActive = false
		m.cmdBuffer = ""
		return m, nil
	case "enter":
		m.cmdActive = false
		buffer := m.cmdBuffer
		m.cmdBuffer = ""
		return m.runCommand(buffer)
	case "backspace":
		if r := []rune(m.cmdBuffer); len(r) > 0 {
			m.cmdBuffer = string(r[:len(r)-1])
		}
		return m, nil
	case "space":
		m.cmdBuffer += " "
		return m, nil
	}

	if text := msg.String(); utf8.RuneCountInString(text) == 1 {
		m.cmdBuffer += text
	}
	return m, nil
}

func (m Model) runCommand(input string) (Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "":
		return m, nil
	case "w":
		return m, m.saveCmd(false)
	case "q":
		return m, tea.Quit
	case "wq", "x":
		return m, m.saveCmd(true)
	case "e", "reload":
		return m, m.reloadCmd()
	case "clip":
		return m, m.clipCmd(false)
	case "cq":
		return m, m.clipCmd(true)
	case "export":
		if arg == "" {
			m.setError("usage: :export <path>")
			return m, nil
		}
		return m, m.exportCmd(arg)
	case "summary":
		m.session.Summary = arg
		m.dirty = true
		m.setInfo("Summary updated")
		return m, nil
	default:
		m.setError("Unknown command: " + name)
		return m, nil
	}
}

// Async commands

func (m Model) saveCmd(quitAfter bool) tea.Cmd {
	store, repo, session := m.store, m.repo, m.session
	return func() tea.Msg {
		_, err := store.Save(repo.Root, session)
		return savedMsg{quitAfter: quitAfter, err: err}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	provider := m.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		files, err := provider.Changes(ctx)
		return reloadedMsg{files: files, err: err}
	}
}

func (m Model) clipCmd(quitAfter bool) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		report, err := review.GenerateMarkdown(session)
		if err != nil {
			return clippedMsg{err: err}
		}
		return clippedMsg{quitAfter: quitAfter, err: clipboard.WriteAll(report)}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		report, err := review.GenerateMarkdown(session)
		if err != nil {
			return exportedMsg{path: path, err: err}
		}
		return exportedMsg{path: path, err: os.WriteFile(path, []byte(report), 0o644)}
	}
}

func (m Model) applyReload(msg reloadedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("reload failed: %v", msg.err))
		return m, nil
	}

	mark := m.nav.Mark(m.doc)
	for _, f := range msg.files {
		m.session.EnsureFile(f.DisplayPath())
	}
	m.doc = NewDocument(msg.files, m.session)
	m.nav.Restore(m.doc, mark)

	m.log.Debug().Int("files", len(msg.files)).Msg("diff reloaded")
	m.setInfo(fmt.Sprintf("Reloaded %d files", len(msg.files)))
	return m, nil
}

// Messages

func (m *Model) setInfo(text string)    { m.message = &statusMessage{text: text, kind: messageInfo} }
func (m *Model) setWarning(text string) { m.message = &statusMessage{text: text, kind: messageWarn} }
func (m *Model) setError(text string)   { m.message = &statusMessage{text: text, kind: messageError} }

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.commentModal != nil {
		return m.renderOverlay(m.commentModal.View())
	}
	if m.confirmModal != nil {
		return m.renderOverlay(m.confirmModal.View())
	}
	if m.helpModal != nil {
		return m.renderOverlay(m.helpModal.View())
	}

	contentHeight := max(1, m.height-1)
	diffWidth := max(1, m.width-fileListWidth-1)

	fileList := m.renderFileList(fileListWidth, contentHeight)
	diffPane := m.renderDiffPane(diffWidth, contentHeight)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		filePanelStyle.Height(contentHeight).Render(fileList),
		diffPane,
	)
	return body + "\n" + m.renderStatusBar()
}

func (m Model) renderOverlay(content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBlue).
		Padding(1, 2).
		Width(min(m.width-4, 72)).
		Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderFileList(width, height int) string {
	files := m.doc.Files()
	rows := make([]string, 0, min(len(files), height))

	// Keep the selection visible in tall repos.
	start := 0
	if m.nav.CurrentFile >= height {
		start = m.nav.CurrentFile - height + 1
	}

	for i := start; i < len(files) && len(rows) < height; i++ {
		f := files[i]
		marker := " "
		if m.session.Reviewed(f.DisplayPath()) {
			marker = "✓"
		}
		label := fmt.Sprintf("%s [%s] %s", marker, f.Status.Char(), f.DisplayPath())

		style := fileEntryStyle
		if i == m.nav.CurrentFile {
			style = fileSelectedStyle
			if m.focused == PanelFileList {
				label = "> " + label
			}
		}
		rows = append(rows, style.MaxWidth(width-1).Render(label))
	}

	return lipgloss.NewStyle().Width(width - 1).Render(strings.Join(rows, "\n"))
}

func (m Model) renderDiffPane(width, height int) string {
	rows := RenderWindow(m.doc, &m.nav, width, height)
	if len(rows) == 0 {
		return placeholderStyle.Render("No changes to review")
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	if m.cmdActive {
		return statusBarStyle.Width(m.width).Render(":" + m.cmdBuffer)
	}

	mode := statusModeStyle.Render("REVIEW")
	dirty := ""
	if m.dirty {
		dirty = " [+]"
	}
	left := fmt.Sprintf(" %s @ %s%s  %d/%d files  %d reviewed  %d comments",
		m.repo.Branch,
		m.repo.HeadShort,
		dirty,
		min(m.nav.CurrentFile+1, m.doc.FileCount()),
		m.doc.FileCount(),
		m.session.ReviewedCount(),
		m.session.CommentCount(),
	)

	right := ""
	if m.message != nil {
		switch m.message.kind {
		case messageWarn:
			right = messageWarnStyle.Render(m.message.text)
		case messageError:
			right = messageErrorStyle.Render(m.message.text)
		default:
			right = messageInfoStyle.Render(m.message.text)
		}
	}

	bar := mode + statusBarStyle.Render(left)
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(right)
	if gap > 0 {
		bar += statusBarStyle.Render(strings.Repeat(" ", gap))
	}
	return bar + right
}
