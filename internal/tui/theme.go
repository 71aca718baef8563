package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the chat screen.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Pending   lipgloss.Style
	Error     lipgloss.Style
	InputBox  lipgloss.Style
	Primary   lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
}

// DefaultTheme matches the spendwise CLI palette.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#2EC27E"),
	Muted:   lipgloss.Color("#737373"),
	Border:  lipgloss.Color("#404040"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#2EC27E")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	User: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#8AB4F8")),
	Assistant: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#2EC27E")),
	Pending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	InputBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
}
