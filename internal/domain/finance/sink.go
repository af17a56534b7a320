package finance

import (
	"context"

	"github.com/shopspring/decimal"
)

// Direction enum
type Direction string

const (
	DirectionExpense Direction = "EXPENSE"
	DirectionIncome  Direction = "INCOME"
)

const (
	CategorySalary         = "salary"
	CategorySalaryReversal = "salary_reversal"
)

// Transaction is one journal entry handed to the ledger.
type Transaction struct {
	Amount      decimal.Decimal
	Direction   Direction
	Category    string
	Description string
	EmployeeID  string
}

// TransactionSink is the write-only journal; Post returns the assigned
// transaction identifier.
type TransactionSink interface {
	Post(ctx context.Context, tx Transaction) (string, error)
}

// AuditEntry is one append-only audit row.
type AuditEntry struct {
	Actor    string
	Action   string
	TargetID string
	Details  map[string]any
}

// AuditSink records audit entries; implementations must never block a
// business operation on audit failure.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
