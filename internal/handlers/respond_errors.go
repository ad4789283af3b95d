package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hduce/eagle_bank_api/internal/apperrors"
	"github.com/hduce/eagle_bank_api/internal/core/domain"
	"github.com/hduce/eagle_bank_api/internal/core/services"
)

// respondServiceError maps service-layer errors onto HTTP status codes.
// Business-rule violations are 422, caller mistakes are 400/403/404/409, and
// server-side exhaustion (retries, number generation) stays a 500 the client
// may safely retry.
func respondServiceError(c *gin.Context, err error) {
	var insufficientFunds domain.InsufficientFundsError
	var maxBalance domain.MaximumBalanceExceededError

	switch {
	case errors.As(err, &insufficientFunds), errors.As(err, &maxBalance):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAmountOutOfRange),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, services.ErrAccountNotEmpty),
		errors.Is(err, services.ErrUserHasAccounts):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
	}
}
