package dto

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

// RegisterCustomValidators wires domain-aware validation tags into gin's
// binding validator. Must be called before routes are registered.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator engine is not *validator.Validate")
	}
	return v.RegisterValidation("txnamount", validTransactionAmount)
}

// validTransactionAmount rejects non-positive amounts and amounts beyond the
// balance ceiling at the binding layer. The domain layer re-validates after
// rounding.
func validTransactionAmount(fl validator.FieldLevel) bool {
	amount, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return amount.IsPositive() && amount.LessThanOrEqual(domain.MaxAccountBalance)
}
