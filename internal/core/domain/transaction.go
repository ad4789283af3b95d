package domain

import "time"

// TransactionType indicates the direction of a movement.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Transaction is one immutable ledger entry: a single applied movement against
// an account. Entries are only ever appended, never updated or deleted, and an
// account's balance always equals the signed sum of its entries in creation
// order.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	AccountNumber AccountNumber   `json:"accountNumber"`
	Type          TransactionType `json:"type"`
	Amount        Money           `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
	UserID        string          `json:"userID"`
	CreatedAt     time.Time       `json:"createdAt"`
}
