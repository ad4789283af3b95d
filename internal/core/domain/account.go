package domain

import (
	"errors"
	"time"
)

// AccountType labels the product type of an account.
type AccountType string

const (
	Personal AccountType = "PERSONAL"
)

// DefaultSortCode is the bank-wide sort code applied to every account.
const DefaultSortCode = "10-10-10"

// Account is the aggregate the transaction engine mutates. Balance and
// Revision only ever change together: every successful balance write
// increments Revision by exactly one, and the repository uses the revision as
// the compare-and-swap token for optimistic concurrency.
type Account struct {
	AccountNumber AccountNumber `json:"accountNumber"`
	UserID        string        `json:"userID"`
	Name          string        `json:"name"`
	AccountType   AccountType   `json:"accountType"`
	SortCode      string        `json:"sortCode"`
	Balance       Money         `json:"balance"`
	Revision      int64         `json:"revision"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ApplyDeposit returns a copy of the account with the amount added to the
// balance and the revision advanced. A deposit that would push the balance
// past MaxAccountBalance fails with MaximumBalanceExceededError.
func (a Account) ApplyDeposit(amount Money) (Account, error) {
	newBalance, err := a.Balance.Add(amount)
	if err != nil {
		if errors.Is(err, ErrAmountOutOfRange) {
			return Account{}, MaximumBalanceExceededError{
				AccountNumber: a.AccountNumber,
				Balance:       a.Balance,
				Deposit:       amount,
			}
		}
		return Account{}, err
	}
	a.Balance = newBalance
	a.Revision++
	return a, nil
}

// ApplyWithdrawal returns a copy of the account with the amount subtracted
// from the balance and the revision advanced. Withdrawing more than the
// current balance fails with InsufficientFundsError.
func (a Account) ApplyWithdrawal(amount Money) (Account, error) {
	over, err := amount.GreaterThan(a.Balance)
	if err != nil {
		return Account{}, err
	}
	if over {
		return Account{}, InsufficientFundsError{
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
			Requested:     amount,
		}
	}
	newBalance, err := a.Balance.Subtract(amount)
	if err != nil {
		return Account{}, err
	}
	a.Balance = newBalance
	a.Revision++
	return a, nil
}
