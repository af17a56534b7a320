package payroll

import (
	"time"

	"github.com/paycore/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RunOptions parameterizes one recompute cycle. A zero Month/Year means
// "resolve current and previous period from the clock"; an empty EmployeeID
// means "all contracted employees".
type RunOptions struct {
	Month      int
	Year       int
	EmployeeID string
	DryRun     bool
	Reason     string
	Actor      string
}

// RunError is one failed (employee, period) pair within a batch cycle.
type RunError struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	Message    string `json:"message"`
}

// RunSummary is the outcome of one recompute cycle, scheduled or manual.
type RunSummary struct {
	RunID          string     `json:"run_id"`
	UsersScanned   int        `json:"users_scanned"`
	PeriodsScanned int        `json:"periods_scanned"`
	Created        int        `json:"created"`
	Updated        int        `json:"updated"`
	SkippedPaid    int        `json:"skipped_paid"`
	Errors         []RunError `json:"errors"`
	DurationMS     int64      `json:"duration_ms"`
	DryRun         bool       `json:"dry_run"`
	Reason         string     `json:"reason"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     time.Time  `json:"finished_at"`
}

// AutomationStatus is the snapshot returned by the status endpoint.
type AutomationStatus struct {
	Enabled             bool        `json:"enabled"`
	ScheduleHourLocal   int         `json:"schedule_hour_local"`
	ScheduleMinuteLocal int         `json:"schedule_minute_local"`
	Timezone            string      `json:"timezone"`
	LastRunAt           *time.Time  `json:"last_run_at"`
	LastSuccessAt       *time.Time  `json:"last_success_at"`
	LastSkippedAt       *time.Time  `json:"last_skipped_at"`
	LastError           string      `json:"last_error,omitempty"`
	LastSummary         *RunSummary `json:"last_summary"`
}

// View is a payroll record together with its payment ledger and the
// running pending amount that drives the draft/partial/paid transition.
type View struct {
	Payroll       Payroll
	Payments      []Payment
	PendingAmount decimal.Decimal
}

// RunRequest - POST /payroll/run
type RunRequest struct {
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	EmployeeID string `json:"employee_id"`
	DryRun     bool   `json:"dry_run"`
}

func (r RunRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month != 0 || r.Year != 0 {
		if !validator.IsValidMonth(r.Month) {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
		}
		if !validator.IsValidYear(r.Year) {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four digit year"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordPaymentRequest - POST /payrolls/{id}/payments
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	PaidBy    string          `json:"paid_by"`
}

func (r RecordPaymentRequest) Validate() error {
	var errs validator.ValidationErrors
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}
	if validator.IsEmpty(r.Method) {
		errs = append(errs, validator.ValidationError{Field: "method", Message: "is required"})
	}
	if validator.IsEmpty(r.Reference) {
		errs = append(errs, validator.ValidationError{Field: "reference", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetStatusRequest - PATCH /payrolls/{id}/status
type SetStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

func (r SetStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	switch Status(r.Status) {
	case StatusPaid, StatusDraft:
	default:
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be paid or draft"})
	}
	if validator.IsEmpty(r.Actor) {
		errs = append(errs, validator.ValidationError{Field: "actor", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateCutoffDayRequest - PUT /payroll/settings/cutoff-day
type UpdateCutoffDayRequest struct {
	SalaryCutoffDay int `json:"salary_cutoff_day"`
}

// PaymentResponse is the wire shape of one ledger row.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	PaidAt        time.Time       `json:"paid_at"`
	PaidBy        string          `json:"paid_by"`
}

// PayrollResponse is the wire shape of one payroll record with its ledger.
type PayrollResponse struct {
	ID                string            `json:"id"`
	EmployeeID        string            `json:"employee_id"`
	PeriodMonth       int               `json:"period_month"`
	PeriodYear        int               `json:"period_year"`
	BasePay           decimal.Decimal   `json:"base_pay"`
	OvertimeHours     decimal.Decimal   `json:"overtime_hours"`
	OvertimePay       decimal.Decimal   `json:"overtime_pay"`
	CommissionPay     decimal.Decimal   `json:"commission_pay"`
	BonusPay          decimal.Decimal   `json:"bonus_pay"`
	Deductions        decimal.Decimal   `json:"deductions"`
	TotalPay          decimal.Decimal   `json:"total_pay"`
	PendingAmount     decimal.Decimal   `json:"pending_amount"`
	Status            string            `json:"status"`
	PaidTransactionID *string           `json:"paid_transaction_id"`
	PaidAt            *time.Time        `json:"paid_at"`
	PaidBy            *string           `json:"paid_by"`
	Payments          []PaymentResponse `json:"payments"`
}

// ToResponse flattens a View for the API layer.
func (v View) ToResponse() PayrollResponse {
	payments := make([]PaymentResponse, 0, len(v.Payments))
	for _, p := range v.Payments {
		payments = append(payments, PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Method:        p.Method,
			TransactionID: p.TransactionID,
			PaidAt:        p.PaidAt,
			PaidBy:        p.PaidBy,
		})
	}
	r := v.Payroll
	return PayrollResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		PeriodMonth:       r.PeriodMonth,
		PeriodYear:        r.PeriodYear,
		BasePay:           r.BasePay,
		OvertimeHours:     r.OvertimeHours,
		OvertimePay:       r.OvertimePay,
		CommissionPay:     r.CommissionPay,
		BonusPay:          r.BonusPay,
		Deductions:        r.Deductions,
		TotalPay:          r.TotalPay,
		PendingAmount:     v.PendingAmount,
		Status:            string(r.Status),
		PaidTransactionID: r.PaidTransactionID,
		PaidAt:            r.PaidAt,
		PaidBy:            r.PaidBy,
		Payments:          payments,
	}
}
