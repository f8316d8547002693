package amqp

import (
	"encoding/json"
	"time"
)

// Sources of generated expenses.
const (
	SourceRecurring    = "recurring"
	SourceSubscription = "subscription"
	SourceManual       = "manual"
)

// ExpenseGeneratedMessage announces that an expense was written to the ledger.
// Contains only the ID; consumers fetch the full expense from the ledger.
type ExpenseGeneratedMessage struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseGeneratedMessage creates a message for the given expense ID.
func NewExpenseGeneratedMessage(id, source string) *ExpenseGeneratedMessage {
	return &ExpenseGeneratedMessage{
		ID:        id,
		Source:    source,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseGeneratedMessageFromJSON creates a message from JSON bytes
func ExpenseGeneratedMessageFromJSON(data []byte) (*ExpenseGeneratedMessage, error) {
	var msg ExpenseGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
