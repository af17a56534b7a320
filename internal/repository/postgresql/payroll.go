package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSettings(ctx context.Context) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, salary_cutoff_day, updated_at
		FROM payroll_settings
		WHERE id = 1
	`

	var s payroll.Settings
	err := q.QueryRow(ctx, query).Scan(&s.ID, &s.SalaryCutoffDay, &s.UpdatedAt)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) UpdateCutoffDay(ctx context.Context, day int) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_settings
		SET salary_cutoff_day = $1, updated_at = NOW()
		WHERE id = 1
		RETURNING id, salary_cutoff_day, updated_at
	`

	var s payroll.Settings
	err := q.QueryRow(ctx, query, day).Scan(&s.ID, &s.SalaryCutoffDay, &s.UpdatedAt)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to update cutoff day: %w", err)
	}

	return s, nil
}

// ========== RECORDS ==========

const payrollColumns = `
	id, employee_id, period_month, period_year,
	base_pay, overtime_hours, overtime_pay, commission_pay, bonus_pay,
	deductions, total_pay, status,
	paid_transaction_id, paid_at, paid_by, created_at, updated_at
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear,
		&p.BasePay, &p.OvertimeHours, &p.OvertimePay, &p.CommissionPay, &p.BonusPay,
		&p.Deductions, &p.TotalPay, &p.Status,
		&p.PaidTransactionID, &p.PaidAt, &p.PaidBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepository) Insert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			id, employee_id, period_month, period_year,
			base_pay, overtime_hours, overtime_pay, commission_pay, bonus_pay,
			deductions, total_pay, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + payrollColumns

	out, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID, p.EmployeeID, p.PeriodMonth, p.PeriodYear,
		p.BasePay, p.OvertimeHours, p.OvertimePay, p.CommissionPay, p.BonusPay,
		p.Deductions, p.TotalPay, p.Status,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_employee_period") {
			return payroll.Payroll{}, payroll.ErrPayrollExists
		}
		return payroll.Payroll{}, fmt.Errorf("failed to insert payroll: %w", err)
	}

	return out, nil
}

func (r *payrollRepository) UpdateAmounts(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET base_pay = $2, overtime_hours = $3, overtime_pay = $4,
			commission_pay = $5, bonus_pay = $6, deductions = $7,
			total_pay = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payrollColumns

	out, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID,
		p.BasePay, p.OvertimeHours, p.OvertimePay,
		p.CommissionPay, p.BonusPay, p.Deductions,
		p.TotalPay,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll amounts: %w", err)
	}

	return out, nil
}

func (r *payrollRepository) UpdateSettlement(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls
		SET status = $2, paid_transaction_id = $3, paid_at = $4, paid_by = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + payrollColumns

	out, err := scanPayroll(q.QueryRow(ctx, query,
		p.ID, p.Status, p.PaidTransactionID, p.PaidAt, p.PaidBy,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to update payroll settlement: %w", err)
	}

	return out, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + payrollColumns + `FROM payrolls WHERE id = $1` + lockClause(ctx)

	p, err := scanPayroll(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + payrollColumns + `
		FROM payrolls
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3` + lockClause(ctx)

	p, err := scanPayroll(q.QueryRow(ctx, query, employeeID, period.Month, period.Year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll by period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + payrollColumns + `FROM payrolls WHERE 1=1`
	args := []interface{}{}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		query += fmt.Sprintf(" AND period_month = $%d", len(args))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND period_year = $%d", len(args))
	}
	query += " ORDER BY period_year DESC, period_month DESC, employee_id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var out []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// ========== PAYMENT LEDGER ==========

func (r *payrollRepository) InsertPayment(ctx context.Context, payment payroll.Payment) (payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_payments (id, payroll_id, amount, method, transaction_id, paid_at, paid_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, payroll_id, amount, method, transaction_id, paid_at, paid_by
	`

	var p payroll.Payment
	err := q.QueryRow(ctx, query,
		payment.ID, payment.PayrollID, payment.Amount, payment.Method,
		payment.TransactionID, payment.PaidAt, payment.PaidBy,
	).Scan(
		&p.ID, &p.PayrollID, &p.Amount, &p.Method,
		&p.TransactionID, &p.PaidAt, &p.PaidBy,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_payment_transaction") {
			return payroll.Payment{}, payroll.ErrDuplicateTransaction
		}
		return payroll.Payment{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListPayments(ctx context.Context, payrollID string) ([]payroll.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payroll_id, amount, method, transaction_id, paid_at, paid_by
		FROM payroll_payments
		WHERE payroll_id = $1
		ORDER BY paid_at, id
	`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var out []payroll.Payment
	for rows.Next() {
		var p payroll.Payment
		if err := rows.Scan(
			&p.ID, &p.PayrollID, &p.Amount, &p.Method,
			&p.TransactionID, &p.PaidAt, &p.PaidBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *payrollRepository) PaymentsTotal(ctx context.Context, payrollID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payroll_payments
		WHERE payroll_id = $1
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, payrollID).Scan(&total); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to total payments: %w", err)
	}

	return total, nil
}

func (r *payrollRepository) DeletePayments(ctx context.Context, payrollID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_payments WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}

	return nil
}
