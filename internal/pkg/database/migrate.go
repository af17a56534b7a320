package database

import (
	"context"
	"fmt"
)

// Migrate applies the schema idempotently at startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS payroll_settings (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		salary_cutoff_day SMALLINT NOT NULL DEFAULT 1 CHECK (salary_cutoff_day BETWEEN 1 AND 31),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`INSERT INTO payroll_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,

	`CREATE TABLE IF NOT EXISTS payrolls (
		id UUID PRIMARY KEY,
		employee_id TEXT NOT NULL,
		period_month SMALLINT NOT NULL CHECK (period_month BETWEEN 1 AND 12),
		period_year SMALLINT NOT NULL,
		base_pay NUMERIC(14,2) NOT NULL DEFAULT 0,
		overtime_hours NUMERIC(10,2) NOT NULL DEFAULT 0,
		overtime_pay NUMERIC(14,2) NOT NULL DEFAULT 0,
		commission_pay NUMERIC(14,2) NOT NULL DEFAULT 0,
		bonus_pay NUMERIC(14,2) NOT NULL DEFAULT 0,
		deductions NUMERIC(14,2) NOT NULL DEFAULT 0,
		total_pay NUMERIC(14,2) NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'draft',
		paid_transaction_id TEXT,
		paid_at TIMESTAMPTZ,
		paid_by TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT uk_payroll_employee_period UNIQUE (employee_id, period_month, period_year)
	)`,

	`CREATE TABLE IF NOT EXISTS payroll_payments (
		id UUID PRIMARY KEY,
		payroll_id UUID NOT NULL REFERENCES payrolls(id) ON DELETE CASCADE,
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		method TEXT NOT NULL,
		transaction_id TEXT NOT NULL,
		paid_at TIMESTAMPTZ NOT NULL,
		paid_by TEXT NOT NULL,
		CONSTRAINT uk_payroll_payment_transaction UNIQUE (transaction_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payroll_payments_payroll ON payroll_payments(payroll_id)`,

	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY,
		employee_id TEXT NOT NULL,
		type TEXT NOT NULL,
		base_salary NUMERIC(14,2) NOT NULL DEFAULT 0,
		standard_hours NUMERIC(10,2) NOT NULL DEFAULT 0,
		commission_rate NUMERIC(8,4) NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_employee ON contracts(employee_id) WHERE active`,

	`CREATE TABLE IF NOT EXISTS attendance_records (
		id UUID PRIMARY KEY,
		employee_id TEXT NOT NULL,
		check_in TIMESTAMPTZ NOT NULL,
		check_out TIMESTAMPTZ,
		hours_worked NUMERIC(6,2) NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_employee_checkin ON attendance_records(employee_id, check_in)`,

	`CREATE TABLE IF NOT EXISTS leave_requests (
		id UUID PRIMARY KEY,
		employee_id TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leave_employee_dates ON leave_requests(employee_id, start_date, end_date)`,

	`CREATE TABLE IF NOT EXISTS sales_records (
		id UUID PRIMARY KEY,
		employee_id TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL,
		sold_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_employee_soldat ON sales_records(employee_id, sold_at)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		amount NUMERIC(14,2) NOT NULL,
		direction TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		employee_id TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY,
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		target_id TEXT NOT NULL,
		details JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
