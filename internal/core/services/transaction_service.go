package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/middleware"
)

// ErrConcurrentUpdate is returned when the bounded retry loop exhausts its
// attempts without winning the optimistic-lock race. No partial state is
// committed; the caller may safely retry the whole operation.
var ErrConcurrentUpdate = errors.New("account was modified concurrently, retries exhausted")

const (
	// DefaultTxnMaxAttempts bounds the optimistic-lock retry loop.
	DefaultTxnMaxAttempts = 3
	// DefaultTxnRetryBackoff is the pause between retry attempts.
	DefaultTxnRetryBackoff = 100 * time.Millisecond
)

// transactionService applies monetary transactions to accounts using
// optimistic concurrency: no lock is held across the read-validate-write
// sequence; each write is conditioned on the revision read, and a lost race
// is retried a bounded number of times.
type transactionService struct {
	accountRepo portsrepo.AccountRepository
	txnRepo     portsrepo.TransactionRepository
	maxAttempts int
	backoff     time.Duration
}

// NewTransactionService creates the transaction engine. maxAttempts and
// backoff bound the retry loop; zero values fall back to the defaults.
func NewTransactionService(accountRepo portsrepo.AccountRepository, txnRepo portsrepo.TransactionRepository, maxAttempts int, backoff time.Duration) portssvc.TransactionSvcFacade {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTxnMaxAttempts
	}
	if backoff <= 0 {
		backoff = DefaultTxnRetryBackoff
	}
	return &transactionService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction runs the read-validate-conditional-write sequence.
// Business-rule failures (insufficient funds, maximum balance, bad amount,
// forbidden access) are terminal and returned immediately; only a revision
// conflict on the conditional write is retried.
func (s *transactionService) CreateTransaction(ctx context.Context, number domain.AccountNumber, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, *domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := domain.NewMoney(req.Amount, req.Currency)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid transaction amount: %w", err)
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff):
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}

		account, err := s.loadOwnedAccount(ctx, number, userID)
		if err != nil {
			return nil, nil, err
		}

		var updated domain.Account
		switch req.Type {
		case domain.Deposit:
			updated, err = account.ApplyDeposit(amount)
		case domain.Withdrawal:
			updated, err = account.ApplyWithdrawal(amount)
		default:
			return nil, nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
		}
		if err != nil {
			logger.Warn("Transaction rejected",
				slog.String("account_number", number.String()),
				slog.String("type", string(req.Type)),
				slog.String("error", err.Error()))
			return nil, nil, err
		}

		now := time.Now().UTC()
		updated.UpdatedAt = now
		entry := domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountNumber: number,
			Type:          req.Type,
			Amount:        amount,
			Reference:     req.Reference,
			UserID:        userID,
			CreatedAt:     now,
		}

		err = s.accountRepo.SaveAccountWithTransaction(ctx, updated, account.Revision, entry)
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Optimistic lock conflict, retrying",
				slog.String("account_number", number.String()),
				slog.Int64("expected_revision", account.Revision),
				slog.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			logger.Error("Failed to persist transaction",
				slog.String("account_number", number.String()),
				slog.String("error", err.Error()))
			return nil, nil, fmt.Errorf("failed to persist transaction: %w", err)
		}

		logger.Info("Transaction applied",
			slog.String("transaction_id", entry.TransactionID),
			slog.String("account_number", number.String()),
			slog.String("type", string(req.Type)),
			slog.Int64("revision", updated.Revision))
		return &entry, &updated, nil
	}

	logger.Error("Retries exhausted applying transaction",
		slog.String("account_number", number.String()),
		slog.Int("attempts", s.maxAttempts))
	return nil, nil, fmt.Errorf("%w after %d attempts", ErrConcurrentUpdate, s.maxAttempts)
}

// ListTransactions returns the account's ledger entries, oldest first.
func (s *transactionService) ListTransactions(ctx context.Context, number domain.AccountNumber, userID string) ([]domain.Transaction, error) {
	if _, err := s.loadOwnedAccount(ctx, number, userID); err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactionsByAccount(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", number, err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// GetTransaction returns a single ledger entry. An entry that exists but
// belongs to a different account is reported as not found.
func (s *transactionService) GetTransaction(ctx context.Context, number domain.AccountNumber, transactionID string, userID string) (*domain.Transaction, error) {
	if _, err := s.loadOwnedAccount(ctx, number, userID); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("transaction %s not found on account %s: %w", transactionID, number, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.AccountNumber != number {
		return nil, fmt.Errorf("transaction %s not found on account %s: %w", transactionID, number, apperrors.ErrNotFound)
	}
	return txn, nil
}

// loadOwnedAccount fetches the account and enforces ownership. Every mutating
// and reading path goes through this check before touching balances.
func (s *transactionService) loadOwnedAccount(ctx context.Context, number domain.AccountNumber, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("account %s not found: %w", number, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", number, err)
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("account %s does not belong to user %s: %w", number, userID, apperrors.ErrForbidden)
	}
	return account, nil
}
