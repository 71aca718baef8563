package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a debit read from a bank or card statement before it is
// categorized and stored as an Expense.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string
	AccountID   string
	Type        string // e.g. DEBIT, CHECK, PAYMENT, ATM
	Hash        string
	Amount      decimal.Decimal
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ToExpense converts the transaction into an uncategorized expense.
func (t *Transaction) ToExpense(category Category) Expense {
	return Expense{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.Abs(),
		Category:    category,
	}
}
