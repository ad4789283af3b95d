package domain

import (
	"fmt"
	"math/rand/v2"
	"regexp"
)

// AccountNumber is the 8-character external identifier of an account: the
// literal prefix "01" followed by six digits.
type AccountNumber string

const accountNumberPrefix = "01"

var accountNumberPattern = regexp.MustCompile(`^01\d{6}$`)

// ParseAccountNumber validates a raw string against the account number shape.
func ParseAccountNumber(raw string) (AccountNumber, error) {
	if !accountNumberPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: account number must be '01' followed by 6 digits, got %q", ErrInvalidAccountNumber, raw)
	}
	return AccountNumber(raw), nil
}

// RandomAccountNumber draws a random account number from the injected source.
// The suffix is drawn uniformly from 100000-999999.
func RandomAccountNumber(rng *rand.Rand) AccountNumber {
	suffix := rng.IntN(900000) + 100000
	return AccountNumber(fmt.Sprintf("%s%d", accountNumberPrefix, suffix))
}

func (n AccountNumber) String() string {
	return string(n)
}
