package repositories

import (
	"context"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

// TransactionRepository defines read operations over the append-only ledger.
// Entries are written exclusively through
// AccountWriter.SaveAccountWithTransaction.
type TransactionRepository interface {
	// ListTransactionsByAccount retrieves all ledger entries for an account,
	// ordered by creation time ascending (insertion order breaks ties).
	ListTransactionsByAccount(ctx context.Context, number domain.AccountNumber) ([]domain.Transaction, error)

	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
}
