package services

import (
	"math/rand/v2"

	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, rng *rand.Rand) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, rng)
	container.Transaction = NewTransactionService(
		repos.AccountRepo,
		repos.TransactionRepo,
		cfg.TxnMaxRetries,
		cfg.TxnRetryBackoff,
	)
	container.User = NewUserService(repos.UserRepo, repos.AccountRepo)
	container.Auth = NewAuthService(repos.UserRepo, cfg)

	return container
}
