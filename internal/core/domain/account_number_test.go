package domain_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

func TestParseAccountNumber_Valid(t *testing.T) {
	n, err := domain.ParseAccountNumber("01234567")
	require.NoError(t, err)
	assert.Equal(t, "01234567", n.String())
}

func TestParseAccountNumber_Invalid(t *testing.T) {
	cases := []string{
		"",
		"02123456",  // wrong prefix
		"0112345",   // too short
		"011234567", // too long
		"01abcdef",  // non-digits
		" 01234567",
	}
	for _, raw := range cases {
		_, err := domain.ParseAccountNumber(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidAccountNumber, "raw=%q", raw)
	}
}

func TestRandomAccountNumber_Shape(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		n := domain.RandomAccountNumber(rng)
		_, err := domain.ParseAccountNumber(n.String())
		require.NoError(t, err, "drawn=%q", n)
	}
}

func TestRandomAccountNumber_Deterministic(t *testing.T) {
	a := rand.New(rand.NewPCG(7, 7))
	b := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 10; i++ {
		assert.Equal(t, domain.RandomAccountNumber(a), domain.RandomAccountNumber(b))
	}
}
