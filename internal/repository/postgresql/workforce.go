package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/paycore/payroll-engine-go/internal/domain/workforce"
	"github.com/paycore/payroll-engine-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// workforceRepository serves the read-only lookups the pay calculation
// depends on: contracts, attendance, approved leave and sales volume.
type workforceRepository struct {
	db *database.DB
}

func NewWorkforceRepository(db *database.DB) *workforceRepository {
	return &workforceRepository{db: db}
}

func (r *workforceRepository) ListContractedEmployeeIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM contracts
		WHERE active = TRUE
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracted employees: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

func (r *workforceRepository) GetByEmployee(ctx context.Context, employeeID string) (workforce.Contract, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, base_salary, standard_hours, commission_rate,
			   created_at, updated_at
		FROM contracts
		WHERE employee_id = $1 AND active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var c workforce.Contract
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&c.ID, &c.EmployeeID, &c.Type, &c.BaseSalary, &c.StandardHours, &c.CommissionRate,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return workforce.Contract{}, workforce.ErrContractNotFound
		}
		return workforce.Contract{}, fmt.Errorf("failed to get contract: %w", err)
	}

	return c, nil
}

func (r *workforceRepository) ForPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]workforce.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	// end is the last calendar day of the period; shifts checked in any
	// time that day still belong to it.
	query := `
		SELECT id, employee_id, check_in, check_out, hours_worked
		FROM attendance_records
		WHERE employee_id = $1
		  AND check_in >= $2
		  AND check_in < $3
		ORDER BY check_in
	`

	rows, err := q.Query(ctx, query, employeeID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var out []workforce.AttendanceRecord
	for rows.Next() {
		var rec workforce.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.CheckIn, &rec.CheckOut, &rec.HoursWorked); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *workforceRepository) ApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]workforce.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, start_date, end_date, status
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'APPROVED'
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var out []workforce.LeaveRequest
	for rows.Next() {
		var lr workforce.LeaveRequest
		if err := rows.Scan(&lr.ID, &lr.EmployeeID, &lr.StartDate, &lr.EndDate, &lr.Status); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		out = append(out, lr)
	}

	return out, rows.Err()
}

func (r *workforceRepository) VolumeForPeriod(ctx context.Context, employeeID string, start, end time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM sales_records
		WHERE employee_id = $1
		  AND sold_at >= $2
		  AND sold_at < $3
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, start, end.AddDate(0, 0, 1)).Scan(&total); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to total sales volume: %w", err)
	}

	return total, nil
}

var (
	_ workforce.ContractLookup   = (*workforceRepository)(nil)
	_ workforce.AttendanceLookup = (*workforceRepository)(nil)
	_ workforce.LeaveLookup      = (*workforceRepository)(nil)
	_ workforce.SalesLookup      = (*workforceRepository)(nil)
)
