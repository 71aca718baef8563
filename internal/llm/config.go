package llm

import "time"

// Temperatures for each task. Categorization wants repeatable answers,
// chat wants varied phrasing.
const (
	ClassificationTemperature = 0.2
	ChatTemperature           = 0.7
)

// DefaultRequestTimeout bounds a single remote call.
const DefaultRequestTimeout = 30 * time.Second

// Config holds settings shared by the classifier and the chat responder.
type Config struct {
	ClassificationModels []string
	ChatModels           []string
	RequestTimeout       time.Duration
	// CacheTTL enables caching of model categorizations when positive.
	CacheTTL time.Duration
}

// DefaultClassificationModels returns the categorization models in priority order.
func DefaultClassificationModels() []string {
	return []string{"gemini-2.5-flash-lite", "gemini-flash-lite-latest", "gemini-2.0-flash-lite"}
}

// DefaultChatModels returns the chat models in priority order.
func DefaultChatModels() []string {
	return []string{"gemini-2.0-flash-lite", "gemini-2.0-flash", "gemini-1.5-flash"}
}

// DefaultConfig returns a Config populated with the default model lists.
func DefaultConfig() Config {
	return Config{
		ClassificationModels: DefaultClassificationModels(),
		ChatModels:           DefaultChatModels(),
		RequestTimeout:       DefaultRequestTimeout,
	}
}

// WorstCaseLatency is how long one categorization or chat reply can take
// when every model in its list runs into the per-call timeout.
func (c Config) WorstCaseLatency() time.Duration {
	c = c.withDefaults()
	calls := max(len(c.ClassificationModels), len(c.ChatModels))
	return time.Duration(calls) * c.RequestTimeout
}

func (c Config) withDefaults() Config {
	if c.ClassificationModels == nil {
		c.ClassificationModels = DefaultClassificationModels()
	}
	if c.ChatModels == nil {
		c.ChatModels = DefaultChatModels()
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	// Copy so callers cannot mutate the lists after construction.
	c.ClassificationModels = append([]string(nil), c.ClassificationModels...)
	c.ChatModels = append([]string(nil), c.ChatModels...)
	return c
}
