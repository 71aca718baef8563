package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Prompter asks questions on a terminal and reads answers, honouring
// context cancellation.
type Prompter struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewPrompter reads answers from r and writes prompts to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{reader: bufio.NewReader(r), writer: w}
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	// The read goroutine outlives a canceled context until input arrives.
	go func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		value, err := p.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.value != "") {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// AskDefault is Ask with a value used when the answer is blank.
func (p *Prompter) AskDefault(ctx context.Context, label, def string) (string, error) {
	answer, err := p.Ask(ctx, fmt.Sprintf("%s [%s]", label, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, label string) (bool, error) {
	answer, err := p.Ask(ctx, label+" (y/N)")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
