package diffview

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/gitio"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/stores"
)

func key(code rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: code, Text: string(code)})
}

func testModel(t *testing.T) Model {
	t.Helper()
	repo := &gitio.RepoInfo{Root: t.TempDir(), Head: "abc123", HeadShort: "abc123", Branch: "main"}
	m := New(
		zerolog.Nop(),
		config.DefaultConfig().TUI,
		repo,
		nil,
		stores.NewSessionStore(t.TempDir()),
		review.NewSession("abc123"),
		testFiles(),
	)
	m.SetSize(100, 25)
	return m
}

func TestModelCursorKeys(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key('j'))
	m, _ = m.Update(key('j'))
	assert.Equal(t, 2, m.nav.Cursor)

	m, _ = m.Update(key('k'))
	assert.Equal(t, 1, m.nav.Cursor)

	m, _ = m.Update(key('G'))
	assert.Equal(t, m.doc.TotalLines()-1, m.nav.Cursor)

	m, _ = m.Update(key('g'))
	assert.Equal(t, 0, m.nav.Cursor)
	assert.Equal(t, 0, m.nav.Scroll)
}

func TestModelFileKeys(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key('}'))
	assert.Equal(t, 1, m.nav.CurrentFile)
	assert.Equal(t, m.doc.FileOffset(1), m.nav.Cursor)

	m, _ = m.Update(key('{'))
	assert.Equal(t, 0, m.nav.CurrentFile)
}

func TestModelToggleReviewedMovesCursorToHeader(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key('j'))
	m, _ = m.Update(key('j'))
	m, _ = m.Update(key('j'))
	require.Equal(t, 3, m.nav.Cursor)

	m, _ = m.Update(key('r'))
	assert.True(t, m.session.Reviewed("a.go"))
	assert.True(t, m.Dirty())
	assert.Equal(t, doc0Offset(m), m.nav.Cursor)

	// Toggling again restores the original document shape.
	m, _ = m.Update(key('r'))
	assert.False(t, m.session.Reviewed("a.go"))
	assert.Equal(t, 9, m.doc.TotalLines())
}

func doc0Offset(m Model) int {
	return m.doc.FileOffset(m.nav.CurrentFile)
}

func TestModelCommentFlow(t *testing.T) {
	m := testModel(t)

	// Move onto the addition row and open a line comment.
	for i := 0; i < 4; i++ {
		m, _ = m.Update(key('j'))
	}
	m, _ = m.Update(key('c'))
	require.NotNil(t, m.commentModal)

	for _, r := range "looks wrong" {
		m, _ = m.Update(key(r))
	}
	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: 's', Mod: tea.ModCtrl}))

	assert.Nil(t, m.commentModal)
	assert.True(t, m.Dirty())

	fr, ok := m.session.File("a.go")
	require.True(t, ok)
	comments := fr.SideComments(2, review.SideNew)
	require.Len(t, comments, 1)
	assert.Equal(t, "looks wrong", comments[0].Content)

	// The document grew by the comment block.
	assert.Equal(t, 12, m.doc.TotalLines())
}

func TestModelCommentOnHeaderWarns(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key('c'))
	assert.Nil(t, m.commentModal)
	require.NotNil(t, m.message)
	assert.Equal(t, messageWarn, m.message.kind)
}

func TestModelDeleteCommentSequence(t *testing.T) {
	m := testModel(t)
	m.session.EnsureFile("a.go").AddLineComment(2, review.NewComment("stale", review.CommentNote, review.SideNew))

	// Cursor onto the comment block (addition row at 4, block at 5).
	for i := 0; i < 5; i++ {
		m, _ = m.Update(key('j'))
	}
	m, _ = m.Update(key('d'))
	m, _ = m.Update(key('d'))

	assert.False(t, m.session.Files["a.go"].HasComments())
	assert.True(t, m.Dirty())
}

func TestModelQuitConfirmsWhenDirty(t *testing.T) {
	m := testModel(t)

	// Clean: q quits immediately.
	_, cmd := m.Update(key('q'))
	require.NotNil(t, cmd)

	// Dirty: q opens the confirm modal instead.
	m, _ = m.Update(key('r'))
	m, cmd = m.Update(key('q'))
	assert.Nil(t, cmd)
	require.NotNil(t, m.confirmModal)

	// n cancels, stays running.
	m, _ = m.Update(key('n'))
	assert.Nil(t, m.confirmModal)

	// y confirms the quit.
	m, _ = m.Update(key('q'))
	m, cmd = m.Update(key('y'))
	assert.NotNil(t, cmd)
}

func TestModelCommandMode(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key(':'))
	assert.True(t, m.cmdActive)

	for _, r := range "summary needs work" {
		m, _ = m.Update(key(r))
	}
	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter}))

	assert.False(t, m.cmdActive)
	assert.Equal(t, "needs work", m.session.Summary)
	assert.True(t, m.Dirty())
}

func TestModelCommandModeMultibyteInput(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key(':'))
	for _, r := range "summary ü" {
		m, _ = m.Update(key(r))
	}
	// Backspace removes the whole rune, not a byte of it.
	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyBackspace}))
	for _, r := range "wörks" {
		m, _ = m.Update(key(r))
	}
	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter}))

	assert.Equal(t, "wörks", m.session.Summary)
}

func TestModelCommandModeEscape(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key(':'))
	m, _ = m.Update(key('w'))
	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyEscape}))

	assert.False(t, m.cmdActive)
	assert.Empty(t, m.cmdBuffer)
	assert.False(t, m.Dirty())
}

func TestModelUnknownCommand(t *testing.T) {
	m := testModel(t)

	m, _ = m.Update(key(':'))
	for _, r := range "bogus" {
		m, _ = m.Update(key(r))
	}
	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter}))

	require.NotNil(t, m.message)
	assert.Equal(t, messageError, m.message.kind)
}

func TestModelReloadMessage(t *testing.T) {
	m := testModel(t)
	m, _ = m.Update(key('}')) // on b.png

	m, _ = m.Update(reloadedMsg{files: testFiles()})
	assert.Equal(t, 1, m.nav.CurrentFile)
	require.NotNil(t, m.message)
	assert.Equal(t, messageInfo, m.message.kind)

	// A failed reload keeps the old snapshot.
	before := m.doc.TotalLines()
	m, _ = m.Update(reloadedMsg{err: assert.AnError})
	assert.Equal(t, before, m.doc.TotalLines())
	assert.Equal(t, messageError, m.message.kind)
}

func TestModelTabSwitchesPanel(t *testing.T) {
	m := testModel(t)
	assert.Equal(t, PanelDiff, m.focused)

	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyTab}))
	assert.Equal(t, PanelFileList, m.focused)

	// j in the file list moves whole files.
	m, _ = m.Update(key('j'))
	assert.Equal(t, 1, m.nav.CurrentFile)

	m, _ = m.Update(tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter}))
	assert.Equal(t, PanelDiff, m.focused)
}

func TestModelViewRenders(t *testing.T) {
	m := testModel(t)

	out := m.View()
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "b.png")
	assert.Contains(t, out, "REVIEW")
}
