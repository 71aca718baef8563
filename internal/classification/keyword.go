// Package classification provides the deterministic keyword classifier used
// when no language model answer is available.
package classification

import (
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// KeywordRule associates a category with the substrings that select it.
type KeywordRule struct {
	Category model.Category
	Keywords []string
}

// KeywordClassifier maps descriptions to categories by substring search.
// Rules are checked in order and the first match wins.
type KeywordClassifier struct {
	rules []KeywordRule
}

// NewKeywordClassifier creates a classifier over the given rules. Keywords
// are lower-cased once up front.
func NewKeywordClassifier(rules []KeywordRule) *KeywordClassifier {
	normalized := make([]KeywordRule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, KeywordRule{Category: r.Category, Keywords: keywords})
	}
	return &KeywordClassifier{rules: normalized}
}

// NewDefaultKeywordClassifier returns a classifier over DefaultKeywordRules.
func NewDefaultKeywordClassifier() *KeywordClassifier {
	return NewKeywordClassifier(DefaultKeywordRules())
}

// Classify returns the first category whose keywords occur in description,
// or Miscellaneous when nothing matches. It never fails.
func (k *KeywordClassifier) Classify(description string) model.Category {
	text := strings.ToLower(description)
	for _, rule := range k.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return model.CategoryMiscellaneous
}
