package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// ListFilter narrows payroll listings.
type ListFilter struct {
	EmployeeID string
	Month      int
	Year       int
}

// Repository defines data access for payroll records, the payment ledger
// and the settings singleton. Implementations must honor the unique
// (employee_id, month, year) invariant.
type Repository interface {
	// Settings
	GetSettings(ctx context.Context) (Settings, error)
	UpdateCutoffDay(ctx context.Context, day int) (Settings, error)

	// Records
	Insert(ctx context.Context, p Payroll) (Payroll, error)
	UpdateAmounts(ctx context.Context, p Payroll) (Payroll, error)
	UpdateSettlement(ctx context.Context, p Payroll) (Payroll, error)
	GetByID(ctx context.Context, id string) (Payroll, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, period Period) (Payroll, error)
	List(ctx context.Context, filter ListFilter) ([]Payroll, error)

	// Payment ledger
	InsertPayment(ctx context.Context, payment Payment) (Payment, error)
	ListPayments(ctx context.Context, payrollID string) ([]Payment, error)
	PaymentsTotal(ctx context.Context, payrollID string) (decimal.Decimal, error)
	DeletePayments(ctx context.Context, payrollID string) error
}

// TxRunner executes fn atomically; every Repository call made with the
// context fn receives joins the same transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service is the settlement state machine exposed to the API layer.
type Service interface {
	Get(ctx context.Context, id string) (View, error)
	List(ctx context.Context, filter ListFilter) ([]Payroll, error)
	RecordPayment(ctx context.Context, payrollID string, amount decimal.Decimal, method, reference, actor string) (View, error)
	SetStatus(ctx context.Context, payrollID string, target Status, actor string) (View, error)
	CutoffDay(ctx context.Context) (int, error)
	SetCutoffDay(ctx context.Context, day int) (Settings, error)
}

// BatchRunner is the manual-run facade over the recompute loop.
type BatchRunner interface {
	Run(ctx context.Context, opts RunOptions) (RunSummary, error)
}
