// Package tui wires the diff review view into a bubbletea program.
package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/diff"
	"github.com/colonyops/redline/internal/core/gitio"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/stores"
	"github.com/colonyops/redline/internal/tui/views/diffview"
)

// Options configures the review TUI.
type Options struct {
	Log      zerolog.Logger
	Config   *config.Config
	Repo     *gitio.RepoInfo
	Provider *gitio.Provider
	Store    *stores.SessionStore
	Session  *review.Session
	Files    []diff.File
}

// Model is the root TUI model. It owns window sizing and the force-quit
// key; everything else is the review view's business.
type Model struct {
	view     diffview.Model
	width    int
	height   int
	quitting bool
}

// New creates the root model.
func New(opts Options) Model {
	return Model{
		view: diffview.New(
			opts.Log,
			opts.Config.TUI,
			opts.Repo,
			opts.Provider,
			opts.Store,
			opts.Session,
			opts.Files,
		),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.view.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		v := tea.NewView("")
		v.AltScreen = true
		return v
	}
	v := tea.NewView(m.view.View())
	v.AltScreen = true
	return v
}

// Run starts the program in the alternate screen.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts))
	_, err := p.Run()
	return err
}
