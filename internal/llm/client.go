package llm

import "context"

// GenerateOptions tunes a single generation request.
type GenerateOptions struct {
	Temperature float64
}

// Generator is the remote text-generation capability. Implementations
// should return errors that ClassifyError can sort into quota, not-found,
// or other failures.
type Generator interface {
	Generate(ctx context.Context, modelID, prompt string, opts GenerateOptions) (string, error)
}

// ModelInfo describes a model offered by the provider.
type ModelInfo struct {
	Name             string
	DisplayName      string
	InputTokenLimit  int64
	SupportsGenerate bool
}

// ModelLister is implemented by providers that can enumerate their models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
