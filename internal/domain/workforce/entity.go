package workforce

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractType enum
type ContractType string

const (
	ContractFullTime   ContractType = "FULL_TIME"
	ContractPartTime   ContractType = "PART_TIME"
	ContractContractor ContractType = "CONTRACTOR"
	ContractHybrid     ContractType = "HYBRID"
)

// Contract - one active contract per employee. BaseSalary is monthly for
// FULL_TIME/HYBRID and hourly for PART_TIME/CONTRACTOR. StandardHours is
// the overtime threshold (FULL_TIME only); CommissionRate applies to
// HYBRID only.
type Contract struct {
	ID             string
	EmployeeID     string
	Type           ContractType
	BaseSalary     decimal.Decimal
	StandardHours  decimal.Decimal
	CommissionRate decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AttendanceRecord - one shift with its derived hours.
type AttendanceRecord struct {
	ID          string
	EmployeeID  string
	CheckIn     time.Time
	CheckOut    *time.Time
	HoursWorked decimal.Decimal
}

// LeaveStatus enum
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveDenied   LeaveStatus = "DENIED"
)

// LeaveRequest - a date range; only APPROVED requests affect pay.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     LeaveStatus
}
