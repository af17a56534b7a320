package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paycore/payroll-engine-go/internal/domain/finance"
	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Service is the settlement state machine around payroll records:
// DRAFT -> PARTIAL -> PAID, plus PAID -> DRAFT on reopen. Every
// mutation of a single record runs read-modify-write inside one
// transaction so the scheduler and the manual facade cannot race on the
// same (employee, period) row.
type Service struct {
	repo    payroll.Repository
	tx      payroll.TxRunner
	journal finance.TransactionSink
	audit   finance.AuditSink
	now     func() time.Time
}

func NewService(
	repo payroll.Repository,
	tx payroll.TxRunner,
	journal finance.TransactionSink,
	audit finance.AuditSink,
) *Service {
	return &Service{
		repo:    repo,
		tx:      tx,
		journal: journal,
		audit:   audit,
		now:     time.Now,
	}
}

// Upsert creates or refreshes the record for one (employee, period)
// from a freshly calculated breakdown. A paid record is locked: the
// recompute must never silently overwrite a settled period.
func (s *Service) Upsert(ctx context.Context, employeeID string, period payroll.Period, b payroll.PayBreakdown) (payroll.Payroll, bool, error) {
	rec, created, err := s.upsert(ctx, employeeID, period, b)
	if errors.Is(err, payroll.ErrPayrollExists) {
		// Lost an insert race on the (employee, period) unique key. The
		// winner's row is committed now, so a second pass takes the
		// update branch.
		rec, created, err = s.upsert(ctx, employeeID, period, b)
	}
	if err != nil {
		return payroll.Payroll{}, false, err
	}

	action := "payroll.updated"
	if created {
		action = "payroll.created"
	}
	s.auditRecord(ctx, finance.AuditEntry{
		Actor:    "system",
		Action:   action,
		TargetID: rec.ID,
		Details: map[string]any{
			"employee_id": employeeID,
			"month":       period.Month,
			"year":        period.Year,
			"total_pay":   rec.TotalPay.String(),
		},
	})
	return rec, created, nil
}

func (s *Service) upsert(ctx context.Context, employeeID string, period payroll.Period, b payroll.PayBreakdown) (payroll.Payroll, bool, error) {
	var (
		rec     payroll.Payroll
		created bool
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByEmployeePeriod(ctx, employeeID, period)
		if errors.Is(err, payroll.ErrPayrollNotFound) {
			rec, err = s.repo.Insert(ctx, payroll.Payroll{
				ID:            uuid.NewString(),
				EmployeeID:    employeeID,
				PeriodMonth:   period.Month,
				PeriodYear:    period.Year,
				BasePay:       b.BasePay,
				OvertimeHours: b.OvertimeHours,
				OvertimePay:   b.OvertimePay,
				CommissionPay: b.CommissionPay,
				BonusPay:      b.BonusPay,
				Deductions:    b.Deductions,
				TotalPay:      b.TotalPay,
				Status:        payroll.StatusDraft,
			})
			created = true
			return err
		}
		if err != nil {
			return err
		}
		if existing.Status == payroll.StatusPaid {
			return payroll.ErrPayrollLocked
		}
		existing.BasePay = b.BasePay
		existing.OvertimeHours = b.OvertimeHours
		existing.OvertimePay = b.OvertimePay
		existing.CommissionPay = b.CommissionPay
		existing.BonusPay = b.BonusPay
		existing.Deductions = b.Deductions
		existing.TotalPay = b.TotalPay
		rec, err = s.repo.UpdateAmounts(ctx, existing)
		return err
	})
	if err != nil {
		return payroll.Payroll{}, false, err
	}
	return rec, created, nil
}

// Get returns a record with its ledger and pending amount.
func (s *Service) Get(ctx context.Context, id string) (payroll.View, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return payroll.View{}, err
	}
	return s.view(ctx, rec)
}

func (s *Service) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	return s.repo.List(ctx, filter)
}

// RecordPayment appends one ledger entry. The ledger sum must never
// exceed total_pay.
func (s *Service) RecordPayment(ctx context.Context, payrollID string, amount decimal.Decimal, method, reference, actor string) (payroll.View, error) {
	if !amount.IsPositive() {
		return payroll.View{}, payroll.ErrInvalidAmount
	}

	var out payroll.View
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, payrollID)
		if err != nil {
			return err
		}
		if rec.Status == payroll.StatusPaid {
			return payroll.ErrPayrollLocked
		}

		paid, err := s.repo.PaymentsTotal(ctx, payrollID)
		if err != nil {
			return err
		}
		pending := rec.TotalPay.Sub(paid)
		if amount.GreaterThan(pending) {
			return payroll.ErrOverpayment
		}

		if _, err = s.repo.InsertPayment(ctx, payroll.Payment{
			ID:            uuid.NewString(),
			PayrollID:     payrollID,
			Amount:        amount,
			Method:        method,
			TransactionID: reference,
			PaidAt:        s.now().UTC(),
			PaidBy:        actor,
		}); err != nil {
			return err
		}

		if rec.Status != payroll.StatusPartial {
			rec.Status = payroll.StatusPartial
			if rec, err = s.repo.UpdateSettlement(ctx, rec); err != nil {
				return err
			}
		}

		out, err = s.view(ctx, rec)
		return err
	})
	if err != nil {
		return payroll.View{}, err
	}

	s.auditRecord(ctx, finance.AuditEntry{
		Actor:    actor,
		Action:   "payroll.payment_recorded",
		TargetID: payrollID,
		Details: map[string]any{
			"amount":    amount.String(),
			"method":    method,
			"reference": reference,
			"pending":   out.PendingAmount.String(),
		},
	})
	return out, nil
}

// SetStatus drives the two explicit transitions: mark paid and reopen.
func (s *Service) SetStatus(ctx context.Context, payrollID string, target payroll.Status, actor string) (payroll.View, error) {
	switch target {
	case payroll.StatusPaid:
		view, _, err := s.MarkPaid(ctx, payrollID, actor)
		return view, err
	case payroll.StatusDraft:
		return s.Reopen(ctx, payrollID, actor)
	default:
		return payroll.View{}, payroll.ErrInvalidStatusTarget
	}
}

// MarkPaid freezes a fully settled record: it posts one salary expense
// to the journal, stores the returned transaction id and stamps
// paid_at/paid_by. Calling it again on a paid record is a no-op with
// changed=false and no second journal post.
func (s *Service) MarkPaid(ctx context.Context, payrollID string, actor string) (payroll.View, bool, error) {
	var (
		out     payroll.View
		changed bool
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, payrollID)
		if err != nil {
			return err
		}
		if rec.Status == payroll.StatusPaid {
			out, err = s.view(ctx, rec)
			return err
		}

		paid, err := s.repo.PaymentsTotal(ctx, payrollID)
		if err != nil {
			return err
		}
		if !rec.TotalPay.Sub(paid).IsZero() {
			return payroll.ErrOutstandingBalance
		}

		txID, err := s.journal.Post(ctx, finance.Transaction{
			Amount:      rec.TotalPay,
			Direction:   finance.DirectionExpense,
			Category:    finance.CategorySalary,
			Description: fmt.Sprintf("salary %d/%d for employee %s", rec.PeriodMonth, rec.PeriodYear, rec.EmployeeID),
			EmployeeID:  rec.EmployeeID,
		})
		if err != nil {
			return fmt.Errorf("post salary transaction: %w", err)
		}

		now := s.now().UTC()
		rec.Status = payroll.StatusPaid
		rec.PaidTransactionID = &txID
		rec.PaidAt = &now
		rec.PaidBy = &actor
		if rec, err = s.repo.UpdateSettlement(ctx, rec); err != nil {
			return err
		}
		changed = true
		out, err = s.view(ctx, rec)
		return err
	})
	if err != nil {
		return payroll.View{}, false, err
	}

	if changed {
		s.auditRecord(ctx, finance.AuditEntry{
			Actor:    actor,
			Action:   "payroll.marked_paid",
			TargetID: payrollID,
			Details: map[string]any{
				"total_pay":      out.Payroll.TotalPay.String(),
				"transaction_id": deref(out.Payroll.PaidTransactionID),
			},
		})
	}
	return out, changed, nil
}

// Reopen reverses a settled record: one reversing journal entry, paid
// fields cleared and, since the ledger is one-shot per settlement
// cycle, all payments dropped. The record restarts from DRAFT.
func (s *Service) Reopen(ctx context.Context, payrollID string, actor string) (payroll.View, error) {
	var out payroll.View
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetByID(ctx, payrollID)
		if err != nil {
			return err
		}
		if rec.Status != payroll.StatusPaid {
			return payroll.ErrInvalidStatusTarget
		}

		if _, err := s.journal.Post(ctx, finance.Transaction{
			Amount:      rec.TotalPay,
			Direction:   finance.DirectionIncome,
			Category:    finance.CategorySalaryReversal,
			Description: fmt.Sprintf("salary reversal %d/%d for employee %s", rec.PeriodMonth, rec.PeriodYear, rec.EmployeeID),
			EmployeeID:  rec.EmployeeID,
		}); err != nil {
			return fmt.Errorf("post reversal transaction: %w", err)
		}

		if err := s.repo.DeletePayments(ctx, payrollID); err != nil {
			return err
		}

		rec.Status = payroll.StatusDraft
		rec.PaidTransactionID = nil
		rec.PaidAt = nil
		rec.PaidBy = nil
		if rec, err = s.repo.UpdateSettlement(ctx, rec); err != nil {
			return err
		}
		out, err = s.view(ctx, rec)
		return err
	})
	if err != nil {
		return payroll.View{}, err
	}

	s.auditRecord(ctx, finance.AuditEntry{
		Actor:    actor,
		Action:   "payroll.reopened",
		TargetID: payrollID,
		Details: map[string]any{
			"total_pay": out.Payroll.TotalPay.String(),
		},
	})
	return out, nil
}

// CutoffDay reads the configured salary cutoff day.
func (s *Service) CutoffDay(ctx context.Context) (int, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return 0, err
	}
	return settings.SalaryCutoffDay, nil
}

// SetCutoffDay updates the settings singleton.
func (s *Service) SetCutoffDay(ctx context.Context, day int) (payroll.Settings, error) {
	if !validator.IsValidCutoffDay(day) {
		return payroll.Settings{}, payroll.ErrInvalidCutoffDay
	}
	settings, err := s.repo.UpdateCutoffDay(ctx, day)
	if err != nil {
		return payroll.Settings{}, err
	}
	s.auditRecord(ctx, finance.AuditEntry{
		Actor:    "system",
		Action:   "payroll.cutoff_day_updated",
		TargetID: "payroll_settings",
		Details:  map[string]any{"salary_cutoff_day": day},
	})
	return settings, nil
}

func (s *Service) view(ctx context.Context, rec payroll.Payroll) (payroll.View, error) {
	payments, err := s.repo.ListPayments(ctx, rec.ID)
	if err != nil {
		return payroll.View{}, err
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return payroll.View{
		Payroll:       rec,
		Payments:      payments,
		PendingAmount: rec.TotalPay.Sub(paid),
	}, nil
}

func (s *Service) auditRecord(ctx context.Context, entry finance.AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", "action", entry.Action, "target_id", entry.TargetID, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ payroll.Service = (*Service)(nil)
