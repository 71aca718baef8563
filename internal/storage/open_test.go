package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("sqlite by default", func(t *testing.T) {
		store, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "x.db")})
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &SQLiteStorage{}, store)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Driver: "mysql"})
		assert.ErrorIs(t, err, ErrUnknownDriver)
	})

	t.Run("postgres requires url", func(t *testing.T) {
		_, err := Open(context.Background(), Config{Driver: "postgres"})
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestPostgresStorage(t *testing.T) {
	url := os.Getenv("SPENDWISE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("SPENDWISE_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	store, err := NewPostgresStorage(ctx, url)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(ctx))
	_, err = store.pool.Exec(ctx, `TRUNCATE expenses RESTART IDENTITY`)
	require.NoError(t, err)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := newExpense("Rent", "1200.00", model.CategoryBills, base)
	b := newExpense("Lunch", "12.35", model.CategoryFood, base.AddDate(0, 0, 1))
	require.NoError(t, store.AddExpense(ctx, a))
	require.NoError(t, store.AddExpense(ctx, b))

	all, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID)
	assert.Equal(t, "12.35", all[0].Amount.StringFixed(2))

	recent, err := store.ListRecentExpenses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	totals, err := store.CategoryTotals(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, model.CategoryBills, totals[0].Category)

	require.NoError(t, store.DeleteExpense(ctx, a.ID))
	assert.ErrorIs(t, store.DeleteExpense(ctx, a.ID), ErrNotFound)
}
