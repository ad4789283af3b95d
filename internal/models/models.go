package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the database representation of an account row. The revision
// column is the optimistic-lock token: it is compared and advanced by the
// conditional save.
type Account struct {
	AccountNumber string          `db:"account_number"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	AccountType   string          `db:"account_type"`
	SortCode      string          `db:"sort_code"`
	Balance       decimal.Decimal `db:"balance"`
	Currency      string          `db:"currency"`
	Revision      int64           `db:"revision"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Transaction is the database representation of a ledger entry. The seq
// column is a monotonic insertion counter used to break created_at ties when
// listing.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	AccountNumber string          `db:"account_number"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Currency      string          `db:"currency"`
	Reference     string          `db:"reference"`
	UserID        string          `db:"user_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

// User is the database representation of a user row.
type User struct {
	UserID          string    `db:"user_id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	PhoneNumber     string    `db:"phone_number"`
	AddressLine1    string    `db:"address_line1"`
	AddressLine2    string    `db:"address_line2"`
	AddressLine3    string    `db:"address_line3"`
	AddressTown     string    `db:"address_town"`
	AddressCounty   string    `db:"address_county"`
	AddressPostcode string    `db:"address_postcode"`
	PasswordHash    string    `db:"password_hash"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
