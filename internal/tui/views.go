package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.theme.Title.Render("💸 spendwise chat") + "\n" +
		m.theme.Subtitle.Render("Questions are answered from your 15 most recent expenses.")

	status := m.help.ShortHelpView(m.keymap.ShortHelp())
	if m.waiting {
		status = m.spinner.View() + m.theme.Pending.Render(" thinking...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.theme.InputBox.Width(max(m.width-2, 10)).Render(m.input.View()),
		status,
	)
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return m.theme.Pending.Render("Try: How much did I spend on food this week?")
	}

	var b strings.Builder
	for i, e := range m.history {
		if i > 0 {
			b.WriteString("\n")
		}
		switch e.Role {
		case RoleUser:
			b.WriteString(m.theme.User.Render("You") + "\n")
			b.WriteString(e.Content + "\n")
		case RoleAssistant:
			b.WriteString(m.theme.Assistant.Render("Assistant") + "\n")
			b.WriteString(m.renderReply(e.Content))
		}
	}
	return b.String()
}

func (m Model) renderReply(content string) string {
	if m.renderer == nil {
		return content + "\n"
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return strings.TrimLeft(out, "\n")
}
