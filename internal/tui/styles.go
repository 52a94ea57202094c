package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors.
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorBorder  = lipgloss.Color("#374151") // Border gray

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
