package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/middleware"
)

// maxAccountNumberAttempts bounds unique account number generation. The
// 6-digit suffix space makes collisions improbable; the ceiling is a
// termination guarantee, not an expected path.
const maxAccountNumberAttempts = 10

// ErrAccountNumberGeneration is returned when no free account number was
// found within the attempt ceiling. The caller may retry the whole operation.
var ErrAccountNumberGeneration = errors.New("could not generate a unique account number")

// ErrAccountNotEmpty is returned when deleting an account that still holds
// funds.
var ErrAccountNotEmpty = errors.New("account with a non-zero balance cannot be deleted")

type accountService struct {
	accountRepo portsrepo.AccountRepository

	// rand.Rand is not safe for concurrent use and requests share one
	// source, so every draw takes rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewAccountService creates the account service. The randomness source is
// injected so account number allocation is deterministic in tests.
func NewAccountService(accountRepo portsrepo.AccountRepository, rng *rand.Rand) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		rng:         rng,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	number, err := s.generateUniqueAccountNumber(ctx)
	if err != nil {
		logger.Error("Account number generation failed", slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountNumber: number,
		UserID:        userID,
		Name:          req.Name,
		AccountType:   req.AccountType,
		SortCode:      domain.DefaultSortCode,
		Balance:       domain.ZeroGBP(),
		Revision:      0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account",
			slog.String("account_number", number.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account %s: %w", number, err)
	}

	logger.Info("Account created",
		slog.String("account_number", number.String()),
		slog.String("user_id", userID))
	return &account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, number domain.AccountNumber, userID string) (*domain.Account, error) {
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

func (s *accountService) ListAccountsForUser(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, number domain.AccountNumber, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByNumber(ctx, number, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.accountRepo.UpdateAccountDetails(ctx, *account); err != nil {
		logger.Error("Failed to update account",
			slog.String("account_number", number.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update account %s: %w", number, err)
	}

	logger.Info("Account updated", slog.String("account_number", number.String()))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, number domain.AccountNumber, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByNumber(ctx, number, userID)
	if err != nil {
		return err
	}

	// The transaction engine never produces a negative balance, so zero is a
	// stable predicate for deletability.
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s holds %s", ErrAccountNotEmpty, number, account.Balance)
	}

	if err := s.accountRepo.DeleteAccount(ctx, number); err != nil {
		// The conditional delete lost a race with a deposit that committed
		// after the balance check above.
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: account %s received funds concurrently", ErrAccountNotEmpty, number)
		}
		logger.Error("Failed to delete account",
			slog.String("account_number", number.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete account %s: %w", number, err)
	}

	logger.Info("Account deleted", slog.String("account_number", number.String()))
	return nil
}

// generateUniqueAccountNumber repeatedly draws a random number and checks it
// against the repository until a free one is found or the ceiling is hit.
func (s *accountService) generateUniqueAccountNumber(ctx context.Context) (domain.AccountNumber, error) {
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		s.rngMu.Lock()
		candidate := domain.RandomAccountNumber(s.rng)
		s.rngMu.Unlock()
		exists, err := s.accountRepo.AccountNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check account number %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrAccountNumberGeneration, maxAccountNumberAttempts)
}
