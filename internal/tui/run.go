package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Config controls the chat screen.
type Config struct {
	Theme    Theme
	Width    int
	Height   int
	Markdown bool
}

func (c Config) withDefaults() Config {
	if c.Theme.Primary == "" {
		c.Theme = DefaultTheme
	}
	if c.Width <= 0 {
		c.Width = 80
	}
	if c.Height <= 0 {
		c.Height = 24
	}
	return c
}

// Run opens the interactive chat in the alternate screen and blocks until
// the user quits or ctx is canceled.
func Run(ctx context.Context, responder Responder) error {
	if responder == nil {
		return fmt.Errorf("responder is required")
	}

	m := NewModel(ctx, responder, Config{Markdown: true})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat TUI: %w", err)
	}
	return nil
}
