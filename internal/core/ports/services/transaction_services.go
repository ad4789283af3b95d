package services

import (
	"context"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
	"github.com/hduce/eagle_bank_api/internal/dto"
)

// TransactionSvcFacade is the transaction engine's public contract: it turns a
// requested movement into one consistent state transition on an account plus
// an appended ledger entry.
type TransactionSvcFacade interface {
	// CreateTransaction applies a deposit or withdrawal to the account,
	// retrying internally on optimistic-lock conflicts. On success it returns
	// the appended ledger entry and the updated account.
	CreateTransaction(ctx context.Context, number domain.AccountNumber, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, *domain.Account, error)

	// ListTransactions returns the account's ledger entries ordered by
	// creation time ascending.
	ListTransactions(ctx context.Context, number domain.AccountNumber, userID string) ([]domain.Transaction, error)

	// GetTransaction returns a single ledger entry belonging to the account.
	GetTransaction(ctx context.Context, number domain.AccountNumber, transactionID string, userID string) (*domain.Transaction, error)
}
