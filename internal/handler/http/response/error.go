package response

import (
	"errors"
	"net/http"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/domain/workforce"
	"github.com/paycore/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Payroll domain errors
	switch {
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollLocked):
		Conflict(w, "Payroll record is paid and locked")
	case errors.Is(err, payroll.ErrInvalidAmount):
		BadRequest(w, "Payment amount must be greater than zero", nil)
	case errors.Is(err, payroll.ErrOverpayment):
		BadRequest(w, "Payment exceeds the pending amount", nil)
	case errors.Is(err, payroll.ErrOutstandingBalance):
		BadRequest(w, "Payroll record still has a pending amount", nil)
	case errors.Is(err, payroll.ErrDuplicateTransaction):
		Conflict(w, "Payment reference already recorded")
	case errors.Is(err, payroll.ErrPayrollExists):
		Conflict(w, "Payroll record already exists for the period")
	case errors.Is(err, payroll.ErrInvalidCutoffDay):
		BadRequest(w, "Cutoff day must be between 1 and 31", nil)
	case errors.Is(err, payroll.ErrInvalidStatusTarget):
		BadRequest(w, "Unsupported status transition", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Workforce domain errors
	case errors.Is(err, workforce.ErrContractNotFound):
		NotFound(w, "Employee has no active contract")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
