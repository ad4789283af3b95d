package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
)

// NewRepositoryProvider builds all pgx-backed repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		UserRepo:        newPgxUserRepository(pool),
	}
}
