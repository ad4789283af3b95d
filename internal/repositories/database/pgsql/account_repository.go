package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	"github.com/hduce/eagle_bank_api/internal/models"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountNumber: d.AccountNumber.String(),
		UserID:        d.UserID,
		Name:          d.Name,
		AccountType:   string(d.AccountType),
		SortCode:      d.SortCode,
		Balance:       d.Balance.Amount(),
		Currency:      string(d.Balance.Currency()),
		Revision:      d.Revision,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainAccount(m models.Account) (domain.Account, error) {
	number, err := domain.ParseAccountNumber(m.AccountNumber)
	if err != nil {
		return domain.Account{}, fmt.Errorf("corrupt account number in storage: %w", err)
	}
	balance, err := domain.NewMoney(m.Balance, domain.Currency(m.Currency))
	if err != nil {
		return domain.Account{}, fmt.Errorf("corrupt balance in storage for account %s: %w", m.AccountNumber, err)
	}
	return domain.Account{
		AccountNumber: number,
		UserID:        m.UserID,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		SortCode:      m.SortCode,
		Balance:       balance,
		Revision:      m.Revision,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

const accountColumns = `account_number, user_id, name, account_type, sort_code, balance, currency, revision, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountNumber,
		&m.UserID,
		&m.Name,
		&m.AccountType,
		&m.SortCode,
		&m.Balance,
		&m.Currency,
		&m.Revision,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc, err := toDomainAccount(m)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// SaveAccount inserts a new account row.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountNumber, m.UserID, m.Name, m.AccountType, m.SortCode,
		m.Balance, m.Currency, m.Revision, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountNumber, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account with its current revision.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, number domain.AccountNumber) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`

	account, err := scanAccount(r.Pool.QueryRow(ctx, query, number.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", number, err)
	}
	return account, nil
}

// AccountNumberExists reports whether the account number is taken.
func (r *PgxAccountRepository) AccountNumberExists(ctx context.Context, number domain.AccountNumber) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1);`,
		number.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account number %s: %w", number, err)
	}
	return exists, nil
}

// ListAccountsByUser retrieves all accounts owned by a user.
func (r *PgxAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for user %s: %w", userID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccountDetails updates account metadata only. Balance and revision
// are deliberately excluded; they change only through
// SaveAccountWithTransaction.
func (r *PgxAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts SET name = $1, account_type = $2, updated_at = $3
		WHERE account_number = $4;
	`, m.Name, m.AccountType, m.UpdatedAt, m.AccountNumber)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account row, conditioned on its balance still
// being zero so a deposit committing after the service's guard cannot be
// orphaned. Ledger entries are kept for audit purposes.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, number domain.AccountNumber) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM accounts WHERE account_number = $1 AND balance = 0;`,
		number.String())
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", number, err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.AccountNumberExists(ctx, number)
		if err != nil {
			return fmt.Errorf("failed to check account %s after delete: %w", number, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		// The row is still there, so the condition failed: funds arrived
		// after the caller's zero-balance check.
		return fmt.Errorf("balance no longer zero for account %s: %w", number, apperrors.ErrConflict)
	}
	return nil
}

// SaveAccountWithTransaction writes the mutated account and appends the
// ledger entry inside one database transaction. The account UPDATE is
// conditioned on the stored revision still matching expectedRevision; zero
// affected rows means a concurrent writer got there first and the whole unit
// is rolled back with apperrors.ErrConflict.
func (r *PgxAccountRepository) SaveAccountWithTransaction(ctx context.Context, account domain.Account, expectedRevision int64, entry domain.Transaction) error {
	m := toModelAccount(account)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET balance = $1, revision = $2, updated_at = $3
		WHERE account_number = $4 AND revision = $5;
	`, m.Balance, m.Revision, m.UpdatedAt, m.AccountNumber, expectedRevision)
	if err != nil {
		return fmt.Errorf("failed conditional account update for %s: %w", m.AccountNumber, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the revision moved or the account vanished; both surface as
		// a conflict so the engine reloads and re-decides.
		return fmt.Errorf("revision %d no longer current for account %s: %w", expectedRevision, m.AccountNumber, apperrors.ErrConflict)
	}

	me := toModelTransaction(entry)
	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (transaction_id, account_number, type, amount, currency, reference, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, me.TransactionID, me.AccountNumber, me.Type, me.Amount, me.Currency, me.Reference, me.UserID, me.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry %s: %w", me.TransactionID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction for account %s: %w", m.AccountNumber, err)
	}
	return nil
}
