package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spendwise/internal/classification"
	"github.com/Veraticus/spendwise/internal/model"
)

// Source identifies where a categorization came from.
type Source string

const (
	// SourceModel means a remote model produced the category.
	SourceModel Source = "model"
	// SourceCache means a previously cached model answer was reused.
	SourceCache Source = "cache"
	// SourceKeywords means the keyword fallback produced the category.
	SourceKeywords Source = "keywords"
)

// Classification is a category together with how it was obtained.
type Classification struct {
	Category model.Category
	Source   Source
	Model    string
}

// Classifier categorizes expense descriptions with a remote model, falling
// back to keyword matching when no model gives a usable answer.
type Classifier struct {
	fallback *classification.KeywordClassifier
	cache    *categoryCache
	logger   *slog.Logger
	runner   attemptRunner
	models   []string
}

// NewClassifier creates a classifier over gen. A nil logger uses slog.Default.
func NewClassifier(gen Generator, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	c := &Classifier{
		fallback: classification.NewDefaultKeywordClassifier(),
		logger:   logger,
		models:   cfg.ClassificationModels,
		runner: attemptRunner{
			generator: gen,
			logger:    logger,
			timeout:   cfg.RequestTimeout,
		},
	}
	if cfg.CacheTTL > 0 {
		c.cache = newCategoryCache(cfg.CacheTTL)
	}
	return c
}

// Classify returns a category for description. It never fails.
func (c *Classifier) Classify(ctx context.Context, description string) model.Category {
	return c.ClassifyDetailed(ctx, description).Category
}

// ClassifyDetailed is Classify but also reports the source of the answer.
func (c *Classifier) ClassifyDetailed(ctx context.Context, description string) Classification {
	key := cacheKey(description)
	if c.cache != nil {
		if category, ok := c.cache.get(key); ok {
			c.logger.Debug("category served from cache", "category", category)
			return Classification{Category: category, Source: SourceCache}
		}
	}

	result := c.runner.run(ctx, "categorize", c.models, buildClassificationPrompt(description),
		GenerateOptions{Temperature: ClassificationTemperature}, ClassificationPolicy)

	if result.ok {
		if category, valid := model.ParseCategory(result.text); valid {
			if c.cache != nil {
				c.cache.set(key, category)
			}
			c.logger.Info("expense categorized",
				"model", result.model,
				"category", category)
			return Classification{Category: category, Source: SourceModel, Model: result.model}
		}
		c.logger.Warn("model returned unknown category",
			"model", result.model,
			"response", strings.TrimSpace(result.text))
	}

	category := c.fallback.Classify(description)
	c.logger.Info("keyword fallback engaged",
		"category", category,
		"attempts", result.attempts)
	return Classification{Category: category, Source: SourceKeywords}
}

// Close releases the cache's background goroutine.
func (c *Classifier) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

func buildClassificationPrompt(description string) string {
	names := make([]string, 0, 10)
	for _, category := range model.AllCategories() {
		names = append(names, string(category))
	}

	return fmt.Sprintf(`You are an expert financial analyst. Categorize the following expense description into exactly one of these categories: [%s].

Expense Description: "%s"

Provide only the category name as the response.`, strings.Join(names, ", "), description)
}

func cacheKey(description string) string {
	return strings.Join(strings.Fields(strings.ToLower(description)), " ")
}
