package classification

import (
	"testing"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestKeywordClassifier_Classify(t *testing.T) {
	classifier := NewDefaultKeywordClassifier()

	tests := []struct {
		name        string
		description string
		want        model.Category
	}{
		{name: "groceries", description: "Paid $15 for groceries at the supermarket.", want: model.CategoryGroceries},
		{name: "ride share", description: "Uber ride to office $12", want: model.CategoryTransportation},
		{name: "streaming beats subscription", description: "Netflix subscription $15.99", want: model.CategoryEntertainment},
		{name: "no keywords", description: "Random expense test", want: model.CategoryMiscellaneous},
		{name: "grocery wins over food", description: "grocery run and a pizza", want: model.CategoryGroceries},
		{name: "case insensitive", description: "DINNER with friends", want: model.CategoryFood},
		{name: "gas matches transportation first", description: "monthly gas bill", want: model.CategoryTransportation},
		{name: "healthcare", description: "Pharmacy pickup", want: model.CategoryHealthcare},
		{name: "education", description: "University tuition", want: model.CategoryEducation},
		{name: "bills", description: "Car insurance", want: model.CategoryBills},
		{name: "shopping", description: "New sneakers", want: model.CategoryShopping},
		{name: "utilities", description: "wifi for March", want: model.CategoryUtilities},
		{name: "empty", description: "", want: model.CategoryMiscellaneous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.description))
		})
	}
}

func TestKeywordClassifier_Deterministic(t *testing.T) {
	classifier := NewDefaultKeywordClassifier()
	inputs := []string{"coffee", "train ticket", "something else", "Whole Foods haul"}

	for _, in := range inputs {
		first := classifier.Classify(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, classifier.Classify(in), in)
		}
	}
}

func TestKeywordClassifier_CustomRules(t *testing.T) {
	classifier := NewKeywordClassifier([]KeywordRule{
		{Category: model.CategoryBills, Keywords: []string{"  RENT ", ""}},
		{Category: model.CategoryFood, Keywords: []string{"rent-a-chef"}},
	})

	assert.Equal(t, model.CategoryBills, classifier.Classify("rent-a-chef evening"))
	assert.Equal(t, model.CategoryMiscellaneous, classifier.Classify("bus"))
}

func TestDefaultKeywordRules_OnlyValidCategories(t *testing.T) {
	for _, rule := range DefaultKeywordRules() {
		assert.True(t, rule.Category.IsValid(), rule.Category)
		assert.NotEmpty(t, rule.Keywords)
	}
}
