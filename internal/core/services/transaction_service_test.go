package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/core/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountNumberExists(ctx context.Context, number domain.AccountNumber) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, number domain.AccountNumber) error {
	args := m.Called(ctx, number)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccountWithTransaction(ctx context.Context, account domain.Account, expectedRevision int64, entry domain.Transaction) error {
	args := m.Called(ctx, account, expectedRevision, entry)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListTransactionsByAccount(ctx context.Context, number domain.AccountNumber) ([]domain.Transaction, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// --- Helpers ---

func mustMoney(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.NewMoney(decimal.RequireFromString(amount), domain.GBP)
	require.NoError(t, err)
	return m
}

func accountFixture(balance string, revision int64) domain.Account {
	now := time.Now().UTC()
	m, _ := domain.NewMoney(decimal.RequireFromString(balance), domain.GBP)
	return domain.Account{
		AccountNumber: "01765432",
		UserID:        "user-1",
		Name:          "Current Account",
		AccountType:   domain.Personal,
		SortCode:      domain.DefaultSortCode,
		Balance:       m,
		Revision:      revision,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func depositReq(amount string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Amount:   decimal.RequireFromString(amount),
		Currency: domain.GBP,
		Type:     domain.Deposit,
	}
}

func withdrawalReq(amount string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Amount:   decimal.RequireFromString(amount),
		Currency: domain.GBP,
		Type:     domain.Withdrawal,
	}
}

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	service         portssvc.TransactionSvcFacade
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockTxnRepo = new(MockTransactionRepository)
	// Tight backoff keeps retry tests fast.
	s.service = services.NewTransactionService(s.mockAccountRepo, s.mockTxnRepo, 3, time.Millisecond)
}

// --- CreateTransaction ---

func (s *TransactionServiceTestSuite) TestCreateTransaction_DepositSuccess() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx,
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Revision == 3 && a.Balance.Amount().StringFixed(2) == "60.50"
		}),
		int64(2),
		mock.MatchedBy(func(e domain.Transaction) bool {
			return e.Type == domain.Deposit &&
				e.AccountNumber == acc.AccountNumber &&
				e.Amount.Amount().StringFixed(2) == "10.50" &&
				e.TransactionID != ""
		}),
	).Return(nil).Once()

	req := depositReq("10.50")
	req.Reference = "salary"
	entry, updated, err := s.service.CreateTransaction(ctx, acc.AccountNumber, req, "user-1")

	s.Require().NoError(err)
	s.Require().NotNil(entry)
	s.Require().NotNil(updated)
	s.Equal("salary", entry.Reference)
	s.Equal("user-1", entry.UserID)
	s.Equal("60.50", updated.Balance.Amount().StringFixed(2))
	s.Equal(int64(3), updated.Revision)
	s.WithinDuration(time.Now().UTC(), entry.CreatedAt, time.Second)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_WithdrawalSuccess() {
	ctx := context.Background()
	acc := accountFixture("100.00", 5)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx,
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Revision == 6 && a.Balance.Amount().StringFixed(2) == "70.00"
		}),
		int64(5),
		mock.AnythingOfType("domain.Transaction"),
	).Return(nil).Once()

	entry, updated, err := s.service.CreateTransaction(ctx, acc.AccountNumber, withdrawalReq("30.00"), "user-1")

	s.Require().NoError(err)
	s.Equal(domain.Withdrawal, entry.Type)
	s.Equal("70.00", updated.Balance.Amount().StringFixed(2))
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_AmountRoundedBeforeApply() {
	ctx := context.Background()
	acc := accountFixture("0.00", 0)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx,
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Balance.Amount().StringFixed(2) == "10.01"
		}),
		int64(0),
		mock.AnythingOfType("domain.Transaction"),
	).Return(nil).Once()

	entry, _, err := s.service.CreateTransaction(ctx, acc.AccountNumber, depositReq("10.005"), "user-1")

	s.Require().NoError(err)
	s.Equal("10.01", entry.Amount.Amount().StringFixed(2))
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_NegativeAmount() {
	ctx := context.Background()

	_, _, err := s.service.CreateTransaction(ctx, "01765432", depositReq("-5.00"), "user-1")

	s.Require().ErrorIs(err, domain.ErrAmountOutOfRange)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountByNumber", mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_AccountNotFound() {
	ctx := context.Background()

	s.mockAccountRepo.On("FindAccountByNumber", ctx, domain.AccountNumber("01765432")).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := s.service.CreateTransaction(ctx, "01765432", depositReq("10.00"), "user-1")

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccountWithTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_Forbidden() {
	ctx := context.Background()
	acc := accountFixture("50.00", 0)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()

	_, _, err := s.service.CreateTransaction(ctx, acc.AccountNumber, depositReq("10.00"), "someone-else")

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccountWithTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_InsufficientFunds() {
	ctx := context.Background()
	acc := accountFixture("42.42", 1)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()

	_, _, err := s.service.CreateTransaction(ctx, acc.AccountNumber, withdrawalReq("42.43"), "user-1")

	var insufficient domain.InsufficientFundsError
	s.Require().ErrorAs(err, &insufficient)
	// Business-rule failures are terminal: no write, no retry.
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccountWithTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	s.mockAccountRepo.AssertNumberOfCalls(s.T(), "FindAccountByNumber", 1)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_MaximumBalanceExceeded() {
	ctx := context.Background()
	acc := accountFixture("9999.99", 1)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()

	_, _, err := s.service.CreateTransaction(ctx, acc.AccountNumber, depositReq("0.02"), "user-1")

	var maxErr domain.MaximumBalanceExceededError
	s.Require().ErrorAs(err, &maxErr)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccountWithTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_ConflictThenSuccess() {
	ctx := context.Background()
	stale := accountFixture("50.00", 2)
	fresh := accountFixture("60.00", 3)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, stale.AccountNumber).Return(&stale, nil).Once()
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx, mock.AnythingOfType("domain.Account"), int64(2), mock.AnythingOfType("domain.Transaction")).
		Return(apperrors.ErrConflict).Once()

	// Second attempt re-reads and sees the balance the race winner left.
	s.mockAccountRepo.On("FindAccountByNumber", ctx, fresh.AccountNumber).Return(&fresh, nil).Once()
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx,
		mock.MatchedBy(func(a domain.Account) bool {
			return a.Revision == 4 && a.Balance.Amount().StringFixed(2) == "70.00"
		}),
		int64(3),
		mock.AnythingOfType("domain.Transaction"),
	).Return(nil).Once()

	_, updated, err := s.service.CreateTransaction(ctx, stale.AccountNumber, depositReq("10.00"), "user-1")

	s.Require().NoError(err)
	s.Equal("70.00", updated.Balance.Amount().StringFixed(2))
	s.Equal(int64(4), updated.Revision)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_RetriesExhausted() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Times(3)
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx, mock.AnythingOfType("domain.Account"), int64(2), mock.AnythingOfType("domain.Transaction")).
		Return(apperrors.ErrConflict).Times(3)

	_, _, err := s.service.CreateTransaction(ctx, acc.AccountNumber, depositReq("10.00"), "user-1")

	s.Require().ErrorIs(err, services.ErrConcurrentUpdate)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *TransactionServiceTestSuite) TestCreateTransaction_NonConflictWriteErrorIsTerminal() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)
	dbErr := errors.New("connection reset")

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockAccountRepo.On("SaveAccountWithTransaction", ctx, mock.AnythingOfType("domain.Account"), int64(2), mock.AnythingOfType("domain.Transaction")).
		Return(dbErr).Once()

	_, _, err := s.service.CreateTransaction(ctx, acc.AccountNumber, depositReq("10.00"), "user-1")

	s.Require().ErrorIs(err, dbErr)
	s.mockAccountRepo.AssertNumberOfCalls(s.T(), "SaveAccountWithTransaction", 1)
}

// --- ListTransactions / GetTransaction ---

func (s *TransactionServiceTestSuite) TestListTransactions_Success() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)
	txns := []domain.Transaction{
		{TransactionID: "t1", AccountNumber: acc.AccountNumber, Type: domain.Deposit, Amount: mustMoney(s.T(), "50.00"), UserID: "user-1"},
	}

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockTxnRepo.On("ListTransactionsByAccount", ctx, acc.AccountNumber).Return(txns, nil).Once()

	got, err := s.service.ListTransactions(ctx, acc.AccountNumber, "user-1")

	s.Require().NoError(err)
	s.Len(got, 1)
	s.Equal("t1", got[0].TransactionID)
}

func (s *TransactionServiceTestSuite) TestListTransactions_EmptyLedger() {
	ctx := context.Background()
	acc := accountFixture("0.00", 0)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockTxnRepo.On("ListTransactionsByAccount", ctx, acc.AccountNumber).Return(nil, nil).Once()

	got, err := s.service.ListTransactions(ctx, acc.AccountNumber, "user-1")

	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

func (s *TransactionServiceTestSuite) TestListTransactions_ForbiddenForNonOwner() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()

	_, err := s.service.ListTransactions(ctx, acc.AccountNumber, "someone-else")

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
	s.mockTxnRepo.AssertNotCalled(s.T(), "ListTransactionsByAccount", mock.Anything, mock.Anything)
}

func (s *TransactionServiceTestSuite) TestGetTransaction_Success() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)
	txn := &domain.Transaction{TransactionID: "t1", AccountNumber: acc.AccountNumber, Type: domain.Deposit, Amount: mustMoney(s.T(), "50.00"), UserID: "user-1"}

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockTxnRepo.On("FindTransactionByID", ctx, "t1").Return(txn, nil).Once()

	got, err := s.service.GetTransaction(ctx, acc.AccountNumber, "t1", "user-1")

	s.Require().NoError(err)
	s.Equal("t1", got.TransactionID)
}

func (s *TransactionServiceTestSuite) TestGetTransaction_BelongsToOtherAccount() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)
	txn := &domain.Transaction{TransactionID: "t1", AccountNumber: "01111111", Type: domain.Deposit, Amount: mustMoney(s.T(), "50.00"), UserID: "user-1"}

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockTxnRepo.On("FindTransactionByID", ctx, "t1").Return(txn, nil).Once()

	_, err := s.service.GetTransaction(ctx, acc.AccountNumber, "t1", "user-1")

	// Existing entry on another account is reported as not found, never leaked.
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *TransactionServiceTestSuite) TestGetTransaction_NotFound() {
	ctx := context.Background()
	acc := accountFixture("50.00", 2)

	s.mockAccountRepo.On("FindAccountByNumber", ctx, acc.AccountNumber).Return(&acc, nil).Once()
	s.mockTxnRepo.On("FindTransactionByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetTransaction(ctx, acc.AccountNumber, "missing", "user-1")

	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

// --- Concurrency against a compare-and-swap fake ---

// casAccountStore is an in-memory AccountRepository whose conditional write
// behaves like the real one: the account is only replaced when the stored
// revision matches the expectation, and the ledger entry is appended in the
// same critical section.
type casAccountStore struct {
	mu      sync.Mutex
	account domain.Account
	entries []domain.Transaction
}

func (s *casAccountStore) FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if number != s.account.AccountNumber {
		return nil, apperrors.ErrNotFound
	}
	acc := s.account
	return &acc, nil
}

func (s *casAccountStore) AccountNumberExists(ctx context.Context, number domain.AccountNumber) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return number == s.account.AccountNumber, nil
}

func (s *casAccountStore) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account.UserID != userID {
		return nil, nil
	}
	return []domain.Account{s.account}, nil
}

func (s *casAccountStore) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
	return nil
}

func (s *casAccountStore) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account.Name = account.Name
	s.account.AccountType = account.AccountType
	return nil
}

func (s *casAccountStore) DeleteAccount(ctx context.Context, number domain.AccountNumber) error {
	return nil
}

func (s *casAccountStore) SaveAccountWithTransaction(ctx context.Context, account domain.Account, expectedRevision int64, entry domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account.Revision != expectedRevision {
		return apperrors.ErrConflict
	}
	s.account = account
	s.entries = append(s.entries, entry)
	return nil
}

func (s *casAccountStore) ListTransactionsByAccount(ctx context.Context, number domain.AccountNumber) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *casAccountStore) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].TransactionID == transactionID {
			e := s.entries[i]
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func TestCreateTransaction_ConcurrentDepositsBothLand(t *testing.T) {
	store := &casAccountStore{account: accountFixture("0.00", 0)}
	svc := services.NewTransactionService(store, store, 10, time.Millisecond)
	ctx := context.Background()
	number := store.account.AccountNumber

	amounts := []string{"10.00", "20.00"}
	errs := make([]error, len(amounts))
	var wg sync.WaitGroup
	for i, amt := range amounts {
		wg.Add(1)
		go func(i int, amt string) {
			defer wg.Done()
			_, _, errs[i] = svc.CreateTransaction(ctx, number, depositReq(amt), "user-1")
		}(i, amt)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "deposit %d", i)
	}

	final, err := store.FindAccountByNumber(ctx, number)
	require.NoError(t, err)
	// Neither deposit may be lost: both entries land and the balance is their sum.
	assert.Equal(t, "30.00", final.Balance.Amount().StringFixed(2))
	assert.Equal(t, int64(2), final.Revision)
	entries, err := store.ListTransactionsByAccount(ctx, final.AccountNumber)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCreateTransaction_SequentialLifecycle(t *testing.T) {
	store := &casAccountStore{account: accountFixture("0.00", 0)}
	svc := services.NewTransactionService(store, store, 3, time.Millisecond)
	ctx := context.Background()
	number := store.account.AccountNumber

	steps := []dto.CreateTransactionRequest{
		depositReq("100.00"),
		depositReq("50.00"),
		withdrawalReq("30.00"),
	}
	for i, req := range steps {
		_, _, err := svc.CreateTransaction(ctx, number, req, "user-1")
		require.NoError(t, err, "step %d", i)
	}

	final, err := store.FindAccountByNumber(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, "120.00", final.Balance.Amount().StringFixed(2))
	assert.Equal(t, int64(3), final.Revision)

	entries, err := store.ListTransactionsByAccount(ctx, number)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.Deposit, entries[0].Type)
	assert.Equal(t, domain.Withdrawal, entries[2].Type)
}
