package dto

import (
	"time"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines a requested movement of money.
type CreateTransactionRequest struct {
	Amount    decimal.Decimal        `json:"amount" binding:"required,txnamount"`
	Currency  domain.Currency        `json:"currency" binding:"required,oneof=GBP"`
	Type      domain.TransactionType `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL"`
	Reference string                 `json:"reference" binding:"omitempty,max=255"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	AccountNumber string                 `json:"accountNumber"`
	Type          domain.TransactionType `json:"type"`
	Amount        decimal.Decimal        `json:"amount"`
	Currency      domain.Currency        `json:"currency"`
	Reference     string                 `json:"reference,omitempty"`
	UserID        string                 `json:"userID"`
	CreatedAt     time.Time              `json:"createdTimestamp"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountNumber: txn.AccountNumber.String(),
		Type:          txn.Type,
		Amount:        txn.Amount.Amount(),
		Currency:      txn.Amount.Currency(),
		Reference:     txn.Reference,
		UserID:        txn.UserID,
		CreatedAt:     txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of ledger entries to DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
