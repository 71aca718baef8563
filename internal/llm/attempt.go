package llm

import (
	"context"
	"log/slog"
	"time"
)

// Transition is the decision taken after a model identifier fails.
type Transition int

const (
	// NextModel moves on to the next identifier in the list.
	NextModel Transition = iota
	// Abort stops trying identifiers and engages the fallback.
	Abort
)

// RetryPolicy maps a failure kind to the next transition.
type RetryPolicy func(kind ErrorKind) Transition

// ClassificationPolicy skips identifiers that are out of quota or missing
// and aborts on anything else.
func ClassificationPolicy(kind ErrorKind) Transition {
	switch kind {
	case KindQuotaExhausted, KindNotFound:
		return NextModel
	default:
		return Abort
	}
}

// ChatPolicy tries every identifier regardless of how the previous one failed.
func ChatPolicy(ErrorKind) Transition {
	return NextModel
}

// attemptResult records how a run over the model list ended.
type attemptResult struct {
	err      error
	text     string
	model    string
	attempts int
	ok       bool
}

// attemptRunner walks an ordered list of model identifiers, one at a time,
// until one succeeds, the policy aborts, or the list is exhausted.
type attemptRunner struct {
	generator Generator
	logger    *slog.Logger
	timeout   time.Duration
}

func (r attemptRunner) run(ctx context.Context, task string, models []string, prompt string, opts GenerateOptions, policy RetryPolicy) attemptResult {
	var result attemptResult

	for i, modelID := range models {
		result.attempts = i + 1
		result.model = modelID

		text, err := r.call(ctx, modelID, prompt, opts)
		if err == nil {
			r.logger.Debug("model attempt succeeded",
				"task", task,
				"model", modelID,
				"attempt", i+1,
				"outcome", "succeeded")
			result.text = text
			result.ok = true
			result.err = nil
			return result
		}

		result.err = err
		kind := ClassifyError(err)
		transition := policy(kind)

		r.logger.Info("model attempt failed",
			"task", task,
			"model", modelID,
			"attempt", i+1,
			"outcome", kind.String(),
			"error", err)

		if transition == Abort {
			r.logger.Warn("aborting remaining models",
				"task", task,
				"model", modelID,
				"skipped", len(models)-i-1)
			return result
		}
	}

	return result
}

func (r attemptRunner) call(ctx context.Context, modelID, prompt string, opts GenerateOptions) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.generator.Generate(ctx, modelID, prompt, opts)
}
