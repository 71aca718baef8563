package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/shopspring/decimal"
)

// ChatContextSize is how many recent expenses are handed to the chat responder.
const ChatContextSize = 15

// NewExpense is the input for recording an expense. The category is
// assigned by the service.
type NewExpense struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

// ExpenseService orchestrates categorization, storage, chat and events.
type ExpenseService struct {
	store      ExpenseStore
	classifier Categorizer
	responder  Responder
	publisher  EventPublisher
	logger     *slog.Logger
}

// NewExpenseService wires the collaborators together. publisher may be nil.
func NewExpenseService(store ExpenseStore, classifier Categorizer, responder Responder, publisher EventPublisher, logger *slog.Logger) *ExpenseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpenseService{
		store:      store,
		classifier: classifier,
		responder:  responder,
		publisher:  publisher,
		logger:     logger,
	}
}

// AddExpense categorizes and stores an expense, then announces it.
// Publishing failures are logged and do not fail the call.
func (s *ExpenseService) AddExpense(ctx context.Context, in NewExpense) (model.Expense, error) {
	expense := model.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
	}
	if strings.TrimSpace(expense.Description) == "" {
		return model.Expense{}, model.ErrEmptyDescription
	}
	if err := model.ValidateAmount(expense.Amount); err != nil {
		return model.Expense{}, err
	}

	expense.Category = s.classifier.Classify(ctx, in.Description)

	if err := s.store.AddExpense(ctx, &expense); err != nil {
		return model.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense added",
		"expense_id", expense.ID,
		"category", expense.Category)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseCreated(ctx, expense); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish expense created",
				"expense_id", expense.ID,
				"error", err)
		}
	}

	return expense, nil
}

// ListExpenses returns every expense, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense and announces the deletion.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense deleted", "expense_id", id)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseDeleted(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish expense deleted",
				"expense_id", id,
				"error", err)
		}
	}

	return nil
}

// Summary returns spending totals per category.
func (s *ExpenseService) Summary(ctx context.Context) ([]model.CategoryTotal, error) {
	totals, err := s.store.CategoryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}
	return totals, nil
}

// Chat answers a question using the most recent expenses as context. If the
// history cannot be loaded the question is still answered without it.
func (s *ExpenseService) Chat(ctx context.Context, message string) string {
	recent, err := s.store.ListRecentExpenses(ctx, ChatContextSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load chat context", "error", err)
		recent = nil
	}
	return s.responder.Respond(ctx, message, recent)
}

// Ready reports whether the store is reachable.
func (s *ExpenseService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
