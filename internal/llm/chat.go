package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// MaxContextRecords caps how many expenses are shown to the chat model.
const MaxContextRecords = 15

// ApologyMessage is returned when no chat model could be reached.
const ApologyMessage = "I am currently unable to connect to my AI brain. Please try again later."

// ChatResponder answers questions about recent spending.
type ChatResponder struct {
	logger *slog.Logger
	runner attemptRunner
	models []string
}

// NewChatResponder creates a responder over gen. A nil logger uses slog.Default.
func NewChatResponder(gen Generator, cfg Config, logger *slog.Logger) *ChatResponder {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	return &ChatResponder{
		logger: logger,
		models: cfg.ChatModels,
		runner: attemptRunner{
			generator: gen,
			logger:    logger,
			timeout:   cfg.RequestTimeout,
		},
	}
}

// Respond answers message using recent as context. recent must be ordered
// most recent first; only the first MaxContextRecords entries are used.
// It never fails.
func (r *ChatResponder) Respond(ctx context.Context, message string, recent []model.Expense) string {
	prompt := buildChatPrompt(message, renderHistory(recent))

	result := r.runner.run(ctx, "chat", r.models, prompt,
		GenerateOptions{Temperature: ChatTemperature}, ChatPolicy)
	if result.ok {
		return result.text
	}

	r.logger.Warn("all chat models failed",
		"attempts", result.attempts,
		"error", result.err)
	return ApologyMessage
}

func renderHistory(recent []model.Expense) string {
	if len(recent) > MaxContextRecords {
		recent = recent[:MaxContextRecords]
	}

	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", e.Description, e.Amount.StringFixed(2), e.Category))
	}
	return strings.Join(lines, "\n")
}

func buildChatPrompt(message, history string) string {
	instruction := fmt.Sprintf(`You are a friendly financial advisor. Here is the user's recent spending history:
%s

Answer the user's question based on this data. Be concise, encouraging, and helpful.`, history)

	return instruction + "\n\nUser: " + message
}
