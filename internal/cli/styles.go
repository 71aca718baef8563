// Package cli renders spendwise terminal output with lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spendwise/internal/model"
)

var (
	// PrimaryColor is the spendwise accent (money green).
	PrimaryColor = lipgloss.Color("#2EC27E")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	// AmountStyle right-aligns money columns.
	AmountStyle = lipgloss.NewStyle().Align(lipgloss.Right)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	MoneyIcon   = "💸"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
)

// categoryColors gives each category a stable color in tables.
var categoryColors = map[model.Category]lipgloss.Color{
	model.CategoryFood:           lipgloss.Color("#F4A261"),
	model.CategoryTransportation: lipgloss.Color("#8AB4F8"),
	model.CategoryUtilities:      lipgloss.Color("#E9C46A"),
	model.CategoryEntertainment:  lipgloss.Color("#C77DFF"),
	model.CategoryHealthcare:     lipgloss.Color("#FF8FA3"),
	model.CategoryEducation:      lipgloss.Color("#90BE6D"),
	model.CategoryBills:          lipgloss.Color("#F94144"),
	model.CategoryGroceries:      lipgloss.Color("#43AA8B"),
	model.CategoryShopping:       lipgloss.Color("#F9C74F"),
	model.CategoryMiscellaneous:  SubtleColor,
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the money icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(MoneyIcon + " " + title)
}

// FormatPrompt formats a prompt label.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatCategory colors a category name.
func FormatCategory(c model.Category) string {
	color, ok := categoryColors[c]
	if !ok {
		color = SubtleColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(c.String())
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}
