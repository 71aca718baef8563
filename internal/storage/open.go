package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/spendwise/internal/service"
)

// Store is an ExpenseStore that can also bring its schema up to date.
type Store interface {
	service.ExpenseStore
	Migrate(ctx context.Context) error
}

// Config selects and locates the storage backend.
type Config struct {
	Driver string
	Path   string
	URL    string
}

// Open connects to the configured backend. It does not migrate.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite", "sqlite3":
		return NewSQLiteStorage(cfg.Path)
	case "postgres", "postgresql", "pgx":
		return NewPostgresStorage(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
