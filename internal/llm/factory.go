package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/spendwise/internal/common"
)

// ProviderConfig selects and authenticates the remote provider.
type ProviderConfig struct {
	Provider string
	APIKey   string
	// Endpoint overrides the provider's base URL. Empty uses the default.
	Endpoint string
}

// NewGenerator creates a Generator for the configured provider.
func NewGenerator(ctx context.Context, cfg ProviderConfig) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiClient(cfg.APIKey, WithEndpoint(cfg.Endpoint))
	case "offline":
		return OfflineGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}

// OfflineGenerator fails every call, so categorization always uses the
// keyword fallback and chat always apologizes.
type OfflineGenerator struct{}

// Generate always returns ErrNoAPIKey.
func (OfflineGenerator) Generate(context.Context, string, string, GenerateOptions) (string, error) {
	return "", ErrNoAPIKey
}
