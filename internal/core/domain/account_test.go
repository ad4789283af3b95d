package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

func testAccount(t *testing.T, balance string, revision int64) domain.Account {
	t.Helper()
	now := time.Now().UTC()
	return domain.Account{
		AccountNumber: "01234567",
		UserID:        "user-1",
		Name:          "Current Account",
		AccountType:   domain.Personal,
		SortCode:      domain.DefaultSortCode,
		Balance:       mustGBP(t, balance),
		Revision:      revision,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestApplyDeposit_AddsAndAdvancesRevision(t *testing.T) {
	acc := testAccount(t, "50.00", 4)

	updated, err := acc.ApplyDeposit(mustGBP(t, "10.50"))
	require.NoError(t, err)
	assert.Equal(t, "60.50", updated.Balance.Amount().StringFixed(2))
	assert.Equal(t, int64(5), updated.Revision)

	// Value receiver: the original is untouched.
	assert.Equal(t, "50.00", acc.Balance.Amount().StringFixed(2))
	assert.Equal(t, int64(4), acc.Revision)
}

func TestApplyDeposit_ToExactCeiling(t *testing.T) {
	acc := testAccount(t, "9990.00", 0)

	updated, err := acc.ApplyDeposit(mustGBP(t, "10.00"))
	require.NoError(t, err)
	assert.Equal(t, "10000.00", updated.Balance.Amount().StringFixed(2))
}

func TestApplyDeposit_ExceedsMaximumBalance(t *testing.T) {
	acc := testAccount(t, "9999.99", 7)

	_, err := acc.ApplyDeposit(mustGBP(t, "0.02"))
	var maxErr domain.MaximumBalanceExceededError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, acc.AccountNumber, maxErr.AccountNumber)
	assert.True(t, maxErr.Balance.Equal(acc.Balance))
	assert.Equal(t, "0.02", maxErr.Deposit.Amount().StringFixed(2))
}

func TestApplyWithdrawal_SubtractsAndAdvancesRevision(t *testing.T) {
	acc := testAccount(t, "100.00", 1)

	updated, err := acc.ApplyWithdrawal(mustGBP(t, "30.00"))
	require.NoError(t, err)
	assert.Equal(t, "70.00", updated.Balance.Amount().StringFixed(2))
	assert.Equal(t, int64(2), updated.Revision)
}

func TestApplyWithdrawal_ExactBalanceToZero(t *testing.T) {
	acc := testAccount(t, "42.42", 0)

	updated, err := acc.ApplyWithdrawal(mustGBP(t, "42.42"))
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, int64(1), updated.Revision)
}

func TestApplyWithdrawal_InsufficientFunds(t *testing.T) {
	acc := testAccount(t, "42.42", 3)

	_, err := acc.ApplyWithdrawal(mustGBP(t, "42.43"))
	var insufficient domain.InsufficientFundsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, acc.AccountNumber, insufficient.AccountNumber)
	assert.True(t, insufficient.Balance.Equal(acc.Balance))
	assert.Equal(t, "42.43", insufficient.Requested.Amount().StringFixed(2))
}
