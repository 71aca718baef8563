package storage

import (
	"sort"

	"github.com/Veraticus/spendwise/internal/model"
)

// sortTotals orders totals by amount, largest first, then by name.
func sortTotals(totals map[model.Category]*model.CategoryTotal) []model.CategoryTotal {
	out := make([]model.CategoryTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
