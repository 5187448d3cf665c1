package diffview

import (
	lipgloss "charm.land/lipgloss/v2"
)

// Tokyo Night color palette.
var (
	colorBlue   = lipgloss.Color("#7aa2f7")
	colorCyan   = lipgloss.Color("#7dcfff")
	colorGray   = lipgloss.Color("#565f89")
	colorWhite  = lipgloss.Color("#c0caf5")
	colorGreen  = lipgloss.Color("#9ece6a")
	colorRed    = lipgloss.Color("#f7768e")
	colorYellow = lipgloss.Color("#e0af68")
	colorBg     = lipgloss.Color("#1a1b26")
	colorSurf   = lipgloss.Color("#3b4261")
)

var (
	fileHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	fileReviewedStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	addedStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	removedStyle = lipgloss.NewStyle().Foreground(colorRed)
	contextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	gutterStyle      = lipgloss.NewStyle().Foreground(colorGray)
	placeholderStyle = lipgloss.NewStyle().Foreground(colorGray).Italic(true)

	commentBoxStyle     = lipgloss.NewStyle().Foreground(colorYellow)
	commentContentStyle = lipgloss.NewStyle().Foreground(colorWhite)

	cursorStyle = lipgloss.NewStyle().
			Background(colorSurf)

	statusBarStyle = lipgloss.NewStyle().
			Background(colorBg).
			Foreground(colorWhite)

	statusModeStyle = lipgloss.NewStyle().
			Bold(true).
			Background(colorBlue).
			Foreground(colorBg).
			Padding(0, 1)

	messageInfoStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	messageWarnStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	messageErrorStyle = lipgloss.NewStyle().Foreground(colorRed)

	filePanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(colorGray)

	fileSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	fileEntryStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)
