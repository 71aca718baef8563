// Package events publishes expense change notifications to a message broker.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/spendwise/internal/model"
	"github.com/shopspring/decimal"
)

// Routing keys for published messages.
const (
	RoutingExpenseCreated = "expense.created"
	RoutingExpenseDeleted = "expense.deleted"
)

// ExpenseMessage is the payload published for expense changes. Deleted
// messages carry only the ID.
type ExpenseMessage struct {
	Timestamp   time.Time        `json:"timestamp"`
	Date        *time.Time       `json:"date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Event       string           `json:"event"`
	Description string           `json:"description,omitempty"`
	Category    model.Category   `json:"category,omitempty"`
	ID          int64            `json:"id"`
}

// NewCreatedMessage builds the message announcing a stored expense.
func NewCreatedMessage(e model.Expense) *ExpenseMessage {
	date := e.Date
	amount := e.Amount
	return &ExpenseMessage{
		Event:       RoutingExpenseCreated,
		ID:          e.ID,
		Description: e.Description,
		Amount:      &amount,
		Category:    e.Category,
		Date:        &date,
		Timestamp:   time.Now().UTC(),
	}
}

// NewDeletedMessage builds the message announcing a deleted expense.
func NewDeletedMessage(id int64) *ExpenseMessage {
	return &ExpenseMessage{
		Event:     RoutingExpenseDeleted,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseMessageFromJSON decodes a message.
func ExpenseMessageFromJSON(data []byte) (*ExpenseMessage, error) {
	var msg ExpenseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decode expense message: %w", err)
	}
	return &msg, nil
}
