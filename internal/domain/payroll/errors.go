package payroll

import "errors"

var (
	ErrPayrollNotFound      = errors.New("payroll record not found")
	ErrPayrollExists        = errors.New("payroll record already exists for period")
	ErrPayrollLocked        = errors.New("payroll record is paid and locked")
	ErrInvalidAmount        = errors.New("payment amount must be positive")
	ErrOverpayment          = errors.New("payment exceeds pending balance")
	ErrOutstandingBalance   = errors.New("payroll has an outstanding balance")
	ErrDuplicateTransaction = errors.New("transaction reference already recorded")
	ErrInvalidCutoffDay     = errors.New("salary cutoff day must be between 1 and 31")
	ErrInvalidStatusTarget  = errors.New("unsupported payroll status transition")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
)
