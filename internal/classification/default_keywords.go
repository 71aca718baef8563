package classification

import "github.com/Veraticus/spendwise/internal/model"

// DefaultKeywordRules returns the built-in keyword tables. Order matters:
// Groceries is checked before Food so "grocery pizza" stays Groceries, and
// Transportation's "gas" shadows Utilities' "gas bill".
func DefaultKeywordRules() []KeywordRule {
	return []KeywordRule{
		{
			Category: model.CategoryGroceries,
			Keywords: []string{"grocery", "groceries", "supermarket", "walmart", "target", "whole foods", "trader joe"},
		},
		{
			Category: model.CategoryFood,
			Keywords: []string{"restaurant", "cafe", "coffee", "dinner", "lunch", "breakfast", "food", "pizza", "burger", "samosa"},
		},
		{
			Category: model.CategoryTransportation,
			Keywords: []string{"uber", "lyft", "taxi", "gas", "fuel", "parking", "metro", "bus", "train", "subway"},
		},
		{
			Category: model.CategoryUtilities,
			Keywords: []string{"electricity", "water", "gas bill", "internet", "wifi", "phone bill"},
		},
		{
			Category: model.CategoryEntertainment,
			Keywords: []string{"movie", "cinema", "netflix", "spotify", "game", "concert", "theater"},
		},
		{
			Category: model.CategoryHealthcare,
			Keywords: []string{"doctor", "hospital", "pharmacy", "medicine", "medical", "dentist", "clinic"},
		},
		{
			Category: model.CategoryEducation,
			Keywords: []string{"tuition", "course", "book", "school", "university", "college"},
		},
		{
			Category: model.CategoryBills,
			Keywords: []string{"bill", "insurance", "rent", "mortgage", "subscription"},
		},
		{
			Category: model.CategoryShopping,
			Keywords: []string{
				"amazon", "shopping", "clothes", "shoes", "mall", "store", "tshirt",
				"jeans", "dress", "sneakers", "jacket", "accessories", "electronics",
			},
		},
	}
}
