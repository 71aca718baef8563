// Package service defines the application's collaborator interfaces and the
// expense service that wires them together.
package service

import (
	"context"

	"github.com/Veraticus/spendwise/internal/model"
)

// ExpenseStore defines the contract for our persistence layer.
type ExpenseStore interface {
	// AddExpense stores e, assigning its ID and, when unset, its date.
	AddExpense(ctx context.Context, e *model.Expense) error
	// ListExpenses returns every expense, most recent first.
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	// ListRecentExpenses returns at most limit expenses, most recent first.
	ListRecentExpenses(ctx context.Context, limit int) ([]model.Expense, error)
	// DeleteExpense removes the expense with id. It fails when no such
	// expense exists.
	DeleteExpense(ctx context.Context, id int64) error
	// CategoryTotals sums amounts per category.
	CategoryTotals(ctx context.Context) ([]model.CategoryTotal, error)
	Ping(ctx context.Context) error
	Close() error
}

// Categorizer assigns a category to an expense description. It never fails.
type Categorizer interface {
	Classify(ctx context.Context, description string) model.Category
}

// Responder answers a question about recent spending. It never fails.
type Responder interface {
	Respond(ctx context.Context, message string, recent []model.Expense) string
}

// EventPublisher announces changes to stored expenses.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e model.Expense) error
	PublishExpenseDeleted(ctx context.Context, id int64) error
}
