// Package testutil provides shared test helpers for spendwise packages.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/Veraticus/spendwise/internal/storage"
)

// TestDB is a migrated in-memory store scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates an in-memory SQLite store, runs migrations and
// registers cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.Seed(testutil.FixtureWeek()...)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// Seed inserts expenses and returns them with their assigned IDs.
func (db *TestDB) Seed(expenses ...model.Expense) []model.Expense {
	db.t.Helper()

	ctx := context.Background()
	out := make([]model.Expense, 0, len(expenses))
	for i := range expenses {
		e := expenses[i]
		if err := db.Storage.AddExpense(ctx, &e); err != nil {
			db.t.Fatalf("failed to seed expense %q: %v", e.Description, err)
		}
		out = append(out, e)
	}
	return out
}

// Expense builds a model.Expense from a decimal string, failing on bad input.
func Expense(description, amount string, category model.Category, date time.Time) model.Expense {
	return model.Expense{
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        date,
	}
}

// FixtureWeek returns seven days of ordinary spending ending on 2024-03-07.
func FixtureWeek() []model.Expense {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	return []model.Expense{
		Expense("Whole Foods groceries", "84.12", model.CategoryGroceries, day(1)),
		Expense("Starbucks latte", "5.45", model.CategoryFood, day(2)),
		Expense("Uber to airport", "42.00", model.CategoryTransportation, day(3)),
		Expense("Netflix subscription", "15.49", model.CategoryEntertainment, day(4)),
		Expense("Electric bill", "96.30", model.CategoryBills, day(5)),
		Expense("Pharmacy", "12.99", model.CategoryHealthcare, day(6)),
		Expense("Amazon order", "33.10", model.CategoryShopping, day(7)),
	}
}
