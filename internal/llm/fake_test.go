package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// generateCall records one invocation of the fake generator.
type generateCall struct {
	model       string
	prompt      string
	temperature float64
}

// scriptedGenerator returns canned results keyed by model identifier.
type scriptedGenerator struct {
	responses map[string]string
	errors    map[string]error
	calls     []generateCall
	mu        sync.Mutex
}

func newScriptedGenerator() *scriptedGenerator {
	return &scriptedGenerator{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (g *scriptedGenerator) respond(modelID, text string) *scriptedGenerator {
	g.responses[modelID] = text
	return g
}

func (g *scriptedGenerator) fail(modelID string, err error) *scriptedGenerator {
	g.errors[modelID] = err
	return g
}

func (g *scriptedGenerator) Generate(_ context.Context, modelID, prompt string, opts GenerateOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, generateCall{model: modelID, prompt: prompt, temperature: opts.Temperature})

	if err, ok := g.errors[modelID]; ok {
		return "", err
	}
	if text, ok := g.responses[modelID]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no scripted response for %s", modelID)
}

func (g *scriptedGenerator) calledModels() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	models := make([]string, 0, len(g.calls))
	for _, c := range g.calls {
		models = append(models, c.model)
	}
	return models
}

func (g *scriptedGenerator) lastCall() generateCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		ClassificationModels: []string{"m1", "m2", "m3"},
		ChatModels:           []string{"c1", "c2", "c3"},
	}
}
