package repository

import "context"

// TransactionManager runs fn inside one database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to the running transaction.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewSessionRepository() SessionRepository
	NewPasswordResetRepository() PasswordResetRepository
	NewContactRepository() ContactRepository
}
