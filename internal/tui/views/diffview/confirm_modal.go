package diffview

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
)

// ConfirmModal asks a yes/no question before a destructive or terminal
// action.
type ConfirmModal struct {
	prompt    string
	confirmed bool
	cancelled bool
}

// NewConfirmModal creates a confirmation modal with the given prompt.
func NewConfirmModal(prompt string) ConfirmModal {
	return ConfirmModal{prompt: prompt}
}

// Update handles messages.
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y", "enter":
			m.confirmed = true
		case "n", "N", "esc", "q":
			m.cancelled = true
		}
	}
	return m, nil
}

// View renders the modal content.
func (m ConfirmModal) View() string {
	promptStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite)

	helpStyle := lipgloss.NewStyle().
		Foreground(colorGray).
		MarginTop(1)

	return strings.Join([]string{
		promptStyle.Render(m.prompt),
		helpStyle.Render("y: confirm • n: cancel"),
	}, "\n")
}

// Confirmed returns true if the action was confirmed.
func (m ConfirmModal) Confirmed() bool {
	return m.confirmed
}

// Cancelled returns true if the modal was dismissed.
func (m ConfirmModal) Cancelled() bool {
	return m.cancelled
}
