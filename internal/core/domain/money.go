package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency identifies the currency of a monetary value.
type Currency string

const (
	// GBP is the only currency supported by the bank.
	GBP Currency = "GBP"
)

// MaxAccountBalance is the ceiling for any single monetary value and for any
// account balance. The two share one constant, matching the account rules.
var MaxAccountBalance = decimal.NewFromInt(10000)

const moneyScale = 2

// Money is an immutable monetary value: an exact decimal amount rounded to two
// places, tagged with its currency. All arithmetic returns new values and is
// only defined between values of the same currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney constructs a Money from a raw decimal amount, rounding half-up to
// two decimal places. Returns ErrAmountOutOfRange if the rounded amount is
// negative or exceeds MaxAccountBalance.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	rounded := amount.Round(moneyScale)
	if rounded.IsNegative() || rounded.GreaterThan(MaxAccountBalance) {
		return Money{}, fmt.Errorf("%w: %s", ErrAmountOutOfRange, rounded.String())
	}
	return Money{amount: rounded, currency: currency}, nil
}

// ZeroGBP returns a zero GBP value, the opening balance of every account.
func ZeroGBP() Money {
	return Money{amount: decimal.Zero.Round(moneyScale), currency: GBP}
}

// Amount returns the rounded decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency tag.
func (m Money) Currency() Currency {
	return m.currency
}

// Add returns a new Money holding m + other. The result is re-validated
// against the range, so an overflowing add fails with ErrAmountOutOfRange.
func (m Money) Add(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Add(other.amount), m.currency)
}

// Subtract returns a new Money holding m - other. A result below zero fails
// range validation.
func (m Money) Subtract(other Money) (Money, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return Money{}, err
	}
	return NewMoney(m.amount.Sub(other.amount), m.currency)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if err := m.requireSameCurrency(other); err != nil {
		return false, err
	}
	return m.amount.GreaterThan(other.amount), nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Equal reports whether amount and currency both match.
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale) + " " + string(m.currency)
}

func (m Money) requireSameCurrency(other Money) error {
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
