// Package storage provides the expense persistence layer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spendwise/internal/model"
)

// Storage errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidExpense = errors.New("invalid expense")
	ErrInvalidID      = errors.New("id must be positive")
	ErrInvalidLimit   = errors.New("limit must be positive")
	ErrNotFound       = errors.New("expense not found")
	ErrUnknownDriver  = errors.New("unknown database driver")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateExpense checks an expense before it is written.
func validateExpense(e *model.Expense) error {
	if e == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, err)
	}
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	return nil
}
