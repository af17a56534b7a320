package payroll

import (
	"math"
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/domain/workforce"
	"github.com/shopspring/decimal"
)

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	daysPerMonth       = decimal.NewFromInt(30)
)

// moneyPlaces is the scale every persisted monetary figure is rounded
// to, half away from zero. Rounding happens once per component so a
// recompute over identical inputs reproduces the same figures
// bit-for-bit.
const moneyPlaces = 2

// Calculate maps a contract plus a period's time-tracking facts to a
// gross-pay breakdown. Pure: no persistence, no I/O. The contract must
// already be resolved; a nil contract is the caller's error.
func Calculate(
	contract *workforce.Contract,
	attendance []workforce.AttendanceRecord,
	approvedLeave []workforce.LeaveRequest,
	salesVolume decimal.Decimal,
	periodStart, periodEnd time.Time,
) (payroll.PayBreakdown, error) {
	if contract == nil {
		return payroll.PayBreakdown{}, workforce.ErrContractNotFound
	}

	totalHours := decimal.Zero
	for _, rec := range attendance {
		totalHours = totalHours.Add(rec.HoursWorked)
	}

	b := payroll.PayBreakdown{
		BasePay:       decimal.Zero,
		OvertimeHours: decimal.Zero,
		OvertimePay:   decimal.Zero,
		CommissionPay: decimal.Zero,
		BonusPay:      decimal.Zero,
		Deductions:    decimal.Zero,
	}

	switch contract.Type {
	case workforce.ContractFullTime:
		b.BasePay = contract.BaseSalary
		hourlyRate := decimal.Zero
		if !contract.StandardHours.IsZero() {
			hourlyRate = contract.BaseSalary.Div(contract.StandardHours)
		}
		if totalHours.GreaterThan(contract.StandardHours) {
			b.OvertimeHours = totalHours.Sub(contract.StandardHours)
			b.OvertimePay = b.OvertimeHours.Mul(hourlyRate).Mul(overtimeMultiplier)
		}

	case workforce.ContractPartTime, workforce.ContractContractor:
		// BaseSalary is an hourly rate; absence already yields zero
		// hours, so no overtime multiplier and no leave deduction.
		b.BasePay = totalHours.Mul(contract.BaseSalary)

	case workforce.ContractHybrid:
		b.BasePay = contract.BaseSalary
		b.CommissionPay = salesVolume.Mul(contract.CommissionRate)
	}

	if contract.Type == workforce.ContractFullTime || contract.Type == workforce.ContractHybrid {
		dailyRate := contract.BaseSalary.Div(daysPerMonth)
		for _, leave := range approvedLeave {
			if leave.Status != workforce.LeaveApproved {
				continue
			}
			days := overlapDays(leave.StartDate, leave.EndDate, periodStart, periodEnd)
			if days > 0 {
				b.Deductions = b.Deductions.Add(decimal.NewFromInt(int64(days)).Mul(dailyRate))
			}
		}
	}

	b.BasePay = b.BasePay.Round(moneyPlaces)
	b.OvertimePay = b.OvertimePay.Round(moneyPlaces)
	b.CommissionPay = b.CommissionPay.Round(moneyPlaces)
	b.BonusPay = b.BonusPay.Round(moneyPlaces)
	b.Deductions = b.Deductions.Round(moneyPlaces)
	b.TotalPay = b.BasePay.
		Add(b.OvertimePay).
		Add(b.CommissionPay).
		Add(b.BonusPay).
		Sub(b.Deductions).
		Round(moneyPlaces)

	return b, nil
}

// overlapDays counts the inclusive calendar days of [aStart, aEnd]
// intersected with [bStart, bEnd], comparing at date granularity in
// the period's timezone.
func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	loc := bStart.Location()
	start := dateOf(aStart.In(loc))
	end := dateOf(aEnd.In(loc))
	if lower := dateOf(bStart); start.Before(lower) {
		start = lower
	}
	if upper := dateOf(bEnd); end.After(upper) {
		end = upper
	}
	if end.Before(start) {
		return 0
	}
	// Round absorbs DST days that are not exactly 24h long.
	return int(math.Round(end.Sub(start).Hours()/24)) + 1
}
