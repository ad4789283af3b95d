package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepository
	TransactionRepo TransactionRepository
	UserRepo        UserRepository
}
