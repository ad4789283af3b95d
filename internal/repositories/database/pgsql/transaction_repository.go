package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	"github.com/hduce/eagle_bank_api/internal/models"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new read-side repository over the
// ledger. Writes happen through the account repository's conditional save.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountNumber: d.AccountNumber.String(),
		Type:          string(d.Type),
		Amount:        d.Amount.Amount(),
		Currency:      string(d.Amount.Currency()),
		Reference:     d.Reference,
		UserID:        d.UserID,
		CreatedAt:     d.CreatedAt,
	}
}

func toDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	number, err := domain.ParseAccountNumber(m.AccountNumber)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("corrupt account number in storage: %w", err)
	}
	amount, err := domain.NewMoney(m.Amount, domain.Currency(m.Currency))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("corrupt amount in storage for transaction %s: %w", m.TransactionID, err)
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountNumber: number,
		Type:          domain.TransactionType(m.Type),
		Amount:        amount,
		Reference:     m.Reference,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
	}, nil
}

const transactionColumns = `transaction_id, account_number, type, amount, currency, reference, user_id, created_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountNumber,
		&m.Type,
		&m.Amount,
		&m.Currency,
		&m.Reference,
		&m.UserID,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn, err := toDomainTransaction(m)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListTransactionsByAccount returns the account's ledger entries ordered by
// creation time; the seq column breaks timestamp ties in insertion order.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, number domain.AccountNumber) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_number = $1 ORDER BY created_at, seq;`

	rows, err := r.Pool.Query(ctx, query, number.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", number, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return txns, nil
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}
