package services

import (
	"context"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
	"github.com/hduce/eagle_bank_api/internal/dto"
)

// AccountSvcFacade defines account lifecycle operations. All operations act on
// behalf of the authenticated user and enforce ownership.
type AccountSvcFacade interface {
	// CreateAccount opens a new zero-balance GBP account for the user,
	// allocating a unique account number.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByNumber retrieves an account the user owns. Returns
	// apperrors.ErrNotFound if absent, apperrors.ErrForbidden if owned by
	// someone else.
	GetAccountByNumber(ctx context.Context, number domain.AccountNumber, userID string) (*domain.Account, error)

	// ListAccountsForUser retrieves all accounts owned by the user.
	ListAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error)

	// UpdateAccount updates account metadata (name, type).
	UpdateAccount(ctx context.Context, number domain.AccountNumber, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account. An account with a non-zero balance
	// cannot be deleted.
	DeleteAccount(ctx context.Context, number domain.AccountNumber, userID string) error
}
