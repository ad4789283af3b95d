package dto

import (
	"time"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required,max=100"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=PERSONAL"`
}

// UpdateAccountRequest defines the fields that may be changed on an account.
// Pointers distinguish "not provided" from zero values.
type UpdateAccountRequest struct {
	Name        *string             `json:"name" binding:"omitempty,max=100"`
	AccountType *domain.AccountType `json:"accountType" binding:"omitempty,oneof=PERSONAL"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountNumber string             `json:"accountNumber"`
	SortCode      string             `json:"sortCode"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Balance       decimal.Decimal    `json:"balance"`
	Currency      domain.Currency    `json:"currency"`
	CreatedAt     time.Time          `json:"createdTimestamp"`
	UpdatedAt     time.Time          `json:"updatedTimestamp"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: acc.AccountNumber.String(),
		SortCode:      acc.SortCode,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Balance:       acc.Balance.Amount(),
		Currency:      acc.Balance.Currency(),
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
