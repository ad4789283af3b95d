package repositories

import (
	"context"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate if the
	// email is already registered.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateUser updates a user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// DeleteUser removes a user.
	DeleteUser(ctx context.Context, userID string) error
}
