// Package tui implements the interactive chat screen.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Responder answers a chat message. The reply is never empty; failures
// are reported as an apology.
type Responder interface {
	Chat(ctx context.Context, message string) string
}

const (
	headerHeight = 2
	footerHeight = 1
	inputHeight  = 3
)

// Model holds the chat screen state.
type Model struct {
	ctx       context.Context
	responder Responder
	renderer  *glamour.TermRenderer
	theme     Theme
	keymap    KeyMap
	help      help.Model
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	history   []Entry
	width     int
	height    int
	waiting   bool
	markdown  bool
	ready     bool
	quitting  bool
}

// NewModel creates the chat screen. With markdown enabled assistant replies
// are rendered through glamour.
func NewModel(ctx context.Context, responder Responder, cfg Config) Model {
	cfg = cfg.withDefaults()

	input := textinput.New()
	input.Placeholder = "Ask about your spending..."
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(cfg.Theme.Primary)

	m := Model{
		ctx:       ctx,
		responder: responder,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		input:     input,
		spinner:   sp,
		markdown:  cfg.Markdown,
		width:     cfg.Width,
		height:    cfg.Height,
	}
	m.resize()
	return m
}

// History returns the conversation so far.
func (m Model) History() []Entry {
	return append([]Entry(nil), m.history...)
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys, window changes and replies.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Clear):
			m.history = nil
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.ScrollUp), key.Matches(msg, m.keymap.ScrollDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keymap.Send):
			return m.send()
		}

	case replyMsg:
		m.waiting = false
		m.history = append(m.history, Entry{Role: RoleAssistant, Content: msg.reply, Time: time.Now()})
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}

	m.input.Reset()
	m.waiting = true
	m.history = append(m.history, Entry{Role: RoleUser, Content: text, Time: time.Now()})
	m.refresh()

	return m, tea.Batch(m.ask(text), m.spinner.Tick)
}

// ask runs the responder off the UI goroutine.
func (m Model) ask(text string) tea.Cmd {
	ctx, responder := m.ctx, m.responder
	return func() tea.Msg {
		return replyMsg{reply: responder.Chat(ctx, text)}
	}
}

func (m *Model) resize() {
	vpHeight := m.height - headerHeight - footerHeight - inputHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.Width = max(m.width-6, 10)
	m.help.Width = m.width

	if m.markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(m.width-4, 20)),
		)
		if err == nil {
			m.renderer = r
		}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
