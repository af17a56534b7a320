package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one (month, year) pay cycle under the cutoff-day policy.
type Period struct {
	Month int
	Year  int
}

// Next returns the following period, rolling the year at December.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Month: 1, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Prev returns the preceding period, rolling the year at January.
func (p Period) Prev() Period {
	if p.Month == 1 {
		return Period{Month: 12, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// Status enum
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// PayBreakdown - the pure calculation result for one (employee, period).
type PayBreakdown struct {
	BasePay       decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimePay   decimal.Decimal
	CommissionPay decimal.Decimal
	BonusPay      decimal.Decimal
	Deductions    decimal.Decimal
	TotalPay      decimal.Decimal
}

// Payroll - one settlement record per (employee, month, year).
// A paid record's monetary fields are immutable until reopened.
type Payroll struct {
	ID                string
	EmployeeID        string
	PeriodMonth       int
	PeriodYear        int
	BasePay           decimal.Decimal
	OvertimeHours     decimal.Decimal
	OvertimePay       decimal.Decimal
	CommissionPay     decimal.Decimal
	BonusPay          decimal.Decimal
	Deductions        decimal.Decimal
	TotalPay          decimal.Decimal
	Status            Status
	PaidTransactionID *string
	PaidAt            *time.Time
	PaidBy            *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Period returns the record's pay period.
func (p Payroll) Period() Period {
	return Period{Month: p.PeriodMonth, Year: p.PeriodYear}
}

// Payment - append-only ledger row against one payroll record.
// TransactionID links to the external transaction journal and is unique.
type Payment struct {
	ID            string
	PayrollID     string
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	PaidAt        time.Time
	PaidBy        string
}

// Settings - singleton payroll configuration.
type Settings struct {
	ID              int
	SalaryCutoffDay int
	UpdatedAt       time.Time
}
