package main

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/config"
	"github.com/Veraticus/spendwise/internal/llm"
)

// generatorHandle is the configured generator plus what it needs released.
type generatorHandle struct {
	llm.Generator
	models  llm.Config
	limited *llm.RateLimitedGenerator
	offline bool
}

// Close stops the rate limiter, if any.
func (h *generatorHandle) Close() {
	if h.limited != nil {
		h.limited.Close()
	}
}

// createGenerator builds the remote model client from configuration. Without
// an API key every call fails fast and the fallbacks take over.
func createGenerator(ctx context.Context) (*generatorHandle, error) {
	settings, err := config.LoadLLMConfig(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("LLM settings are invalid", err)
	}

	h := &generatorHandle{models: settings.Models}

	if settings.Provider.APIKey == "" && settings.Provider.Provider != "offline" {
		slog.Warn("No API key configured; categorization will use keyword rules and chat is unavailable",
			"hint", "set GEMINI_API_KEY or llm.api_key")
		h.Generator = llm.OfflineGenerator{}
		h.offline = true
		return h, nil
	}

	gen, err := llm.NewGenerator(ctx, settings.Provider)
	if err != nil {
		return nil, common.NewUserError("Could not create the model client", err)
	}
	if _, ok := gen.(llm.OfflineGenerator); ok {
		h.offline = true
	}

	if settings.RateLimit > 0 {
		h.limited = llm.NewRateLimitedGenerator(gen, settings.RateLimit)
		h.Generator = h.limited
	} else {
		h.Generator = gen
	}

	slog.Debug("Created model client",
		"provider", settings.Provider.Provider,
		"classification_models", settings.Models.ClassificationModels,
		"chat_models", settings.Models.ChatModels,
		"rate_limit", settings.RateLimit)

	return h, nil
}

// createModelClients wires the classifier and chat responder to gen.
func createModelClients(gen *generatorHandle) (*llm.Classifier, *llm.ChatResponder) {
	logger := slog.Default()
	return llm.NewClassifier(gen, gen.models, logger), llm.NewChatResponder(gen, gen.models, logger)
}

// listModels returns the provider's models when it can list them.
func listModels(ctx context.Context, gen *generatorHandle) ([]llm.ModelInfo, error) {
	lister, ok := gen.Generator.(llm.ModelLister)
	if !ok || gen.offline {
		return nil, common.NewUserError("Listing models needs an API key (set GEMINI_API_KEY)", llm.ErrNoAPIKey)
	}
	return lister.ListModels(ctx)
}
