package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Expense validation errors.
var (
	ErrEmptyDescription  = errors.New("description is required")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrInvalidCategory   = errors.New("category is not recognized")
	ErrAmountPrecision   = errors.New("amount must have at most two decimal places")
	ErrAmountTooLarge    = errors.New("amount must not exceed 9999999999.99")
)

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 2

// MaxAmount is the largest amount a record can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ValidateAmount checks that d is a positive amount with at most
// AmountScale decimal places and no larger than MaxAmount.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !d.Equal(d.Round(AmountScale)) {
		return ErrAmountPrecision
	}
	if d.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// Expense is a single recorded spending entry. Records are never updated
// once stored.
type Expense struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ID          int64           `json:"id"`
}

// Validate checks the invariants every stored expense must satisfy.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	return nil
}

// CategoryTotal aggregates spending for a single category.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

func init() {
	// Amounts are rendered as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
