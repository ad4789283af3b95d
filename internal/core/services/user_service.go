package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/middleware"
	"github.com/hduce/eagle_bank_api/internal/platform/auth"
)

// ErrUserHasAccounts is returned when deleting a user who still owns
// accounts.
var ErrUserHasAccounts = errors.New("user with open accounts cannot be deleted")

type userService struct {
	userRepo    portsrepo.UserRepository
	accountRepo portsrepo.AccountReader
}

// NewUserService creates the user service. The account reader is needed for
// the delete guard.
func NewUserService(userRepo portsrepo.UserRepository, accountRepo portsrepo.AccountReader) portssvc.UserSvcFacade {
	return &userService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address.ToDomainAddress(),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("email %s is already registered: %w", req.Email, apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, fmt.Errorf("user %s may not access user %s: %w", requestingUserID, userID, apperrors.ErrForbidden)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("user %s not found: %w", userID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.GetUserByID(ctx, userID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.userRepo.FindUserByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email %s: %w", *req.Email, err)
		}
		if existing != nil {
			return nil, fmt.Errorf("email %s is already registered: %w", *req.Email, apperrors.ErrDuplicate)
		}
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		user.Address = req.Address.ToDomainAddress()
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	logger.Info("User updated", slog.String("user_id", userID))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetUserByID(ctx, userID, requestingUserID); err != nil {
		return err
	}

	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	if len(accounts) > 0 {
		return fmt.Errorf("%w: user %s owns %d account(s)", ErrUserHasAccounts, userID, len(accounts))
	}

	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		logger.Error("Failed to delete user", slog.String("user_id", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	logger.Info("User deleted", slog.String("user_id", userID))
	return nil
}
