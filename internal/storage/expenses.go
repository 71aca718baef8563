package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, description, amount, category, date`

// AddExpense stores e and fills in its ID. A zero date becomes now.
func (s *SQLiteStorage) AddExpense(ctx context.Context, e *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(e); err != nil {
		return err
	}

	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	e.Date = e.Date.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (description, amount, category, date) VALUES (?, ?, ?, ?)`,
		e.Description, e.Amount.String(), string(e.Category), e.Date)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}
	e.ID = id

	return nil
}

// ListExpenses returns all expenses, most recent first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return scanExpenses(rows)
}

// ListRecentExpenses returns at most limit expenses, most recent first.
func (s *SQLiteStorage) ListRecentExpenses(ctx context.Context, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY date DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	return scanExpenses(rows)
}

// DeleteExpense removes an expense. It returns ErrNotFound if nothing was deleted.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	return nil
}

// CategoryTotals sums expenses per category. Amounts are added as decimals
// in Go since SQLite would sum them as floats.
func (s *SQLiteStorage) CategoryTotals(ctx context.Context) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, amount FROM expenses`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make(map[model.Category]*model.CategoryTotal)
	for rows.Next() {
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}

		t, ok := totals[model.Category(category)]
		if !ok {
			t = &model.CategoryTotal{Category: model.Category(category)}
			totals[model.Category(category)] = t
		}
		t.Total = t.Total.Add(amount)
		t.Count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return sortTotals(totals), nil
}

func scanExpenses(rows *sql.Rows) ([]model.Expense, error) {
	defer func() { _ = rows.Close() }()

	expenses := []model.Expense{}
	for rows.Next() {
		var e model.Expense
		var category string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &category, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Category = model.Category(category)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
