package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	portsrepo "github.com/hduce/eagle_bank_api/internal/core/ports/repositories"
	portssvc "github.com/hduce/eagle_bank_api/internal/core/ports/services"
	"github.com/hduce/eagle_bank_api/internal/dto"
	"github.com/hduce/eagle_bank_api/internal/middleware"
	"github.com/hduce/eagle_bank_api/internal/platform/auth"
	"github.com/hduce/eagle_bank_api/internal/platform/config"
)

// ErrInvalidCredentials is returned on a failed login. It deliberately does
// not distinguish an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo portsrepo.UserRepository
	cfg      *config.Config
}

// NewAuthService creates the authentication service.
func NewAuthService(userRepo portsrepo.UserRepository, cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Failed login attempt", slog.String("user_id", user.UserID))
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign token", slog.String("user_id", user.UserID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.cfg.JWTExpiryDuration.Seconds()),
	}, nil
}
