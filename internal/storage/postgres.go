package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		description VARCHAR(255) NOT NULL,
		amount NUMERIC(12, 2) NOT NULL CHECK (amount > 0),
		category VARCHAR(100) NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT now(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category)`,
}

// PostgresStorage implements service.ExpenseStore on PostgreSQL.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage connects to the database at url, retrying while the
// server comes up.
func NewPostgresStorage(ctx context.Context, url string) (*PostgresStorage, error) {
	if err := validateString(url, "url"); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	err = common.WithRetry(ctx, func() error {
		return pool.Ping(ctx)
	}, common.RetryOptions{MaxAttempts: 5, InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for _, stmt := range postgresSchema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	slog.Info("Postgres schema ensured")
	return nil
}

// Ping verifies the database is reachable.
func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

// AddExpense stores e and fills in its ID. A zero date becomes now.
func (s *PostgresStorage) AddExpense(ctx context.Context, e *model.Expense) error {
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

	err := s.pool.QueryRow(ctx,
		`INSERT INTO expenses (description, amount, category, date)
		 VALUES ($1, CAST($2::text AS NUMERIC), $3, $4)
		 RETURNING id`,
		e.Description, e.Amount.String(), string(e.Category), e.Date).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// ListExpenses returns all expenses, most recent first.
func (s *PostgresStorage) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, description, amount::text, category, date FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return collectExpenses(rows)
}

// ListRecentExpenses returns at most limit expenses, most recent first.
func (s *PostgresStorage) ListRecentExpenses(ctx context.Context, limit int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, description, amount::text, category, date FROM expenses ORDER BY date DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	return collectExpenses(rows)
}

// DeleteExpense removes an expense. It returns ErrNotFound if nothing was deleted.
func (s *PostgresStorage) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

// CategoryTotals sums expenses per category.
func (s *PostgresStorage) CategoryTotals(ctx context.Context) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT category, SUM(amount)::text, COUNT(*) FROM expenses GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[model.Category]*model.CategoryTotal)
	for rows.Next() {
		var category, sum string
		var count int64
		if err := rows.Scan(&category, &sum, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		total, err := decimal.NewFromString(sum)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total for %s: %w", category, err)
		}
		totals[model.Category(category)] = &model.CategoryTotal{
			Category: model.Category(category),
			Total:    total,
			Count:    int(count),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return sortTotals(totals), nil
}

func collectExpenses(rows pgx.Rows) ([]model.Expense, error) {
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		var e model.Expense
		var amount, category string
		if err := rows.Scan(&e.ID, &e.Description, &amount, &category, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount for expense %d: %w", e.ID, err)
		}
		e.Amount = parsed
		e.Category = model.Category(category)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
