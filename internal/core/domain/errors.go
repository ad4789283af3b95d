package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAmountOutOfRange indicates a monetary amount outside [0, MaxAccountBalance].
	ErrAmountOutOfRange = errors.New("amount out of range")

	// ErrCurrencyMismatch indicates arithmetic between two different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidAccountNumber indicates a malformed account number.
	ErrInvalidAccountNumber = errors.New("invalid account number")
)

// InsufficientFundsError is returned when a withdrawal exceeds the current
// balance. It carries both values so callers can build a useful message.
type InsufficientFundsError struct {
	AccountNumber AccountNumber
	Balance       Money
	Requested     Money
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds on account %s: balance %s, requested %s",
		e.AccountNumber, e.Balance, e.Requested)
}

// MaximumBalanceExceededError is returned when a deposit would push the
// balance above MaxAccountBalance.
type MaximumBalanceExceededError struct {
	AccountNumber AccountNumber
	Balance       Money
	Deposit       Money
}

func (e MaximumBalanceExceededError) Error() string {
	return fmt.Sprintf("deposit of %s would exceed the maximum balance of %s GBP on account %s (balance %s)",
		e.Deposit, MaxAccountBalance.StringFixed(2), e.AccountNumber, e.Balance)
}
