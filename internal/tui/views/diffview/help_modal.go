package diffview

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
)

// HelpModal shows the keybinding reference.
type HelpModal struct {
	dismissed bool
}

// NewHelpModal creates the help overlay.
func NewHelpModal() HelpModal {
	return HelpModal{}
}

// Update dismisses the modal on any of the close keys.
func (m HelpModal) Update(msg tea.Msg) (HelpModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "?":
			m.dismissed = true
		}
	}
	return m, nil
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{
		title: "Navigation",
		keys: [][2]string{
			{"j/k", "move cursor down/up"},
			{"ctrl+d/ctrl+u", "half page down/up"},
			{"ctrl+f/ctrl+b", "full page down/up"},
			{"g/G", "go to top/bottom"},
			{"{/}", "previous/next file"},
			{"[/]", "previous/next hunk"},
			{"h/l", "scroll left/right"},
			{"zz", "center cursor"},
			{"tab", "switch panel"},
		},
	},
	{
		title: "Review",
		keys: [][2]string{
			{"r", "toggle file reviewed"},
			{"c", "comment on current line"},
			{"C", "comment on current file"},
			{"dd", "delete comment under cursor"},
		},
	},
	{
		title: "Commands",
		keys: [][2]string{
			{":w", "save session"},
			{":q", "quit"},
			{":wq / :x", "save and quit"},
			{":e / :reload", "reload the diff"},
			{":clip", "copy report to clipboard"},
			{":export <path>", "write report to a file"},
			{":summary <text>", "set the review summary"},
			{"?", "toggle this help"},
		},
	},
}

// View renders the keybinding reference.
func (m HelpModal) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(colorYellow).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(colorWhite)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keybindings"))
	for _, section := range helpSections {
		b.WriteString("\n" + sectionStyle.Render(section.title))
		for _, k := range section.keys {
			b.WriteString("\n" + keyStyle.Render(k[0]) + descStyle.Render(k[1]))
		}
	}
	return b.String()
}

// Dismissed returns true once the modal was closed.
func (m HelpModal) Dismissed() bool {
	return m.dismissed
}
