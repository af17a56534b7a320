package workforce

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ContractLookup is the read-only contract store.
type ContractLookup interface {
	ListContractedEmployeeIDs(ctx context.Context) ([]string, error)
	GetByEmployee(ctx context.Context, employeeID string) (Contract, error)
}

// AttendanceLookup returns the shifts checked in within [start, end],
// date-inclusive in the caller's period timezone.
type AttendanceLookup interface {
	ForPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]AttendanceRecord, error)
}

// LeaveLookup returns APPROVED leave requests overlapping [start, end].
type LeaveLookup interface {
	ApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]LeaveRequest, error)
}

// SalesLookup totals an employee's attributed sales volume inside a
// period, the commission base for HYBRID contracts.
type SalesLookup interface {
	VolumeForPeriod(ctx context.Context, employeeID string, start, end time.Time) (decimal.Decimal, error)
}
