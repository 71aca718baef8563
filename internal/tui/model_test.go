package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoResponder struct {
	mu       sync.Mutex
	messages []string
}

func (e *echoResponder) Chat(_ context.Context, message string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, message)
	return "You asked: " + message
}

func typeText(m tea.Model, text string) tea.Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func newTestModel(r Responder) Model {
	return NewModel(context.Background(), r, Config{Width: 80, Height: 24})
}

func TestSendAndReply(t *testing.T) {
	responder := &echoResponder{}
	var m tea.Model = newTestModel(responder)

	m = typeText(m, "food total?")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	cm := m.(Model)
	assert.True(t, cm.waiting)
	require.Len(t, cm.History(), 1)
	assert.Equal(t, RoleUser, cm.History()[0].Role)
	assert.Equal(t, "food total?", cm.History()[0].Content)
	assert.Empty(t, cm.input.Value())

	// Run the responder command directly.
	reply := cm.ask("food total?")()
	m, _ = m.Update(reply)

	cm = m.(Model)
	assert.False(t, cm.waiting)
	require.Len(t, cm.History(), 2)
	assert.Equal(t, RoleAssistant, cm.History()[1].Role)
	assert.Equal(t, "You asked: food total?", cm.History()[1].Content)
	assert.Contains(t, cm.View(), "You asked: food total?")
}

func TestBlankInputIsIgnored(t *testing.T) {
	var m tea.Model = newTestModel(&echoResponder{})

	m = typeText(m, "   ")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.(Model).History())
}

func TestSendWhileWaitingIsIgnored(t *testing.T) {
	var m tea.Model = newTestModel(&echoResponder{})

	m = typeText(m, "first")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeText(m, "second")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Len(t, m.(Model).History(), 1)
}

func TestClearAndQuit(t *testing.T) {
	var m tea.Model = newTestModel(&echoResponder{})
	m, _ = m.Update(replyMsg{reply: "hello"})
	require.Len(t, m.(Model).History(), 1)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.(Model).History())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestWindowResize(t *testing.T) {
	var m tea.Model = newTestModel(&echoResponder{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	cm := m.(Model)
	assert.Equal(t, 120, cm.viewport.Width)
	assert.Equal(t, 40-headerHeight-footerHeight-inputHeight, cm.viewport.Height)
	assert.True(t, strings.Contains(cm.View(), "spendwise chat"))
}

func TestRunRequiresResponder(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil))
}
