package services

import (
	"context"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
	"github.com/hduce/eagle_bank_api/internal/dto"
)

// UserSvcFacade defines user lifecycle operations.
type UserSvcFacade interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user. Requesting another user's record returns
	// apperrors.ErrForbidden.
	GetUserByID(ctx context.Context, userID string, requestingUserID string) (*domain.User, error)

	// UpdateUser updates the user's own details.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error)

	// DeleteUser removes the user. A user who still owns accounts cannot be
	// deleted.
	DeleteUser(ctx context.Context, userID string, requestingUserID string) error
}

// AuthSvcFacade defines authentication operations.
type AuthSvcFacade interface {
	// Login verifies email/password credentials and issues a signed JWT.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
