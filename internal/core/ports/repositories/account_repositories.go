package repositories

import (
	"context"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByNumber retrieves an account, including its current
	// revision, by its account number.
	FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error)

	// AccountNumberExists reports whether an account number is already taken.
	AccountNumberExists(ctx context.Context, number domain.AccountNumber) (bool, error)

	// ListAccountsByUser retrieves all accounts owned by a user.
	ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountDetails updates account metadata (name, type). It never
	// touches balance or revision.
	UpdateAccountDetails(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account, conditioned on its balance being
	// zero at delete time. Returns apperrors.ErrConflict if the account
	// still exists with a non-zero balance, apperrors.ErrNotFound if it is
	// absent.
	DeleteAccount(ctx context.Context, number domain.AccountNumber) error

	// SaveAccountWithTransaction persists the mutated account and appends the
	// ledger entry as one atomic unit. The account row is only written if its
	// stored revision still equals expectedRevision; otherwise
	// apperrors.ErrConflict is returned and nothing is committed.
	SaveAccountWithTransaction(ctx context.Context, account domain.Account, expectedRevision int64, entry domain.Transaction) error
}

// AccountRepository combines all account repository operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
