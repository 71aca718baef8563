package model

import "strings"

// Category is one of the fixed spending categories.
type Category string

// The closed set of spending categories.
const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryUtilities      Category = "Utilities"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryEducation      Category = "Education"
	CategoryBills          Category = "Bills"
	CategoryGroceries      Category = "Groceries"
	CategoryShopping       Category = "Shopping"
	CategoryMiscellaneous  Category = "Miscellaneous"
)

var allCategories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryEducation,
	CategoryBills,
	CategoryGroceries,
	CategoryShopping,
	CategoryMiscellaneous,
}

// AllCategories returns every category in the order presented to the model.
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// IsValid reports whether c is a member of the category set.
func (c Category) IsValid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches free text against the category set, ignoring case,
// surrounding quotes, markdown emphasis and trailing punctuation.
func ParseCategory(raw string) (Category, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.Trim(cleaned, "\"'`*_")
	cleaned = strings.TrimRight(cleaned, ".!,;:")
	cleaned = strings.TrimSpace(cleaned)

	for _, known := range allCategories {
		if strings.EqualFold(cleaned, string(known)) {
			return known, true
		}
	}
	return "", false
}
