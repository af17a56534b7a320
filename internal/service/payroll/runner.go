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
	"github.com/paycore/payroll-engine-go/internal/domain/workforce"
	"github.com/paycore/payroll-engine-go/internal/pkg/validator"
)

// Runner drives one recompute cycle over (employee, period) pairs. It
// is the inner loop of the automation scheduler and, unchanged, the
// manual-run facade. Per-pair failures are collected, never fatal: one
// bad contract must not block the rest of the batch.
type Runner struct {
	contracts  workforce.ContractLookup
	attendance workforce.AttendanceLookup
	leave      workforce.LeaveLookup
	sales      workforce.SalesLookup
	store      *Service
	audit      finance.AuditSink
	status     *StatusStore
	loc        *time.Location
	now        func() time.Time
}

func NewRunner(
	contracts workforce.ContractLookup,
	attendance workforce.AttendanceLookup,
	leave workforce.LeaveLookup,
	sales workforce.SalesLookup,
	store *Service,
	audit finance.AuditSink,
	status *StatusStore,
	loc *time.Location,
) *Runner {
	if loc == nil {
		loc = time.UTC
	}
	return &Runner{
		contracts:  contracts,
		attendance: attendance,
		leave:      leave,
		sales:      sales,
		store:      store,
		audit:      audit,
		status:     status,
		loc:        loc,
		now:        time.Now,
	}
}

// Run executes one recompute cycle. The returned error is nil for
// batch runs even when individual pairs failed; partial failure is
// reported through summary.Errors. Only single-employee runs surface a
// missing contract as a hard error. Every outcome, aborted cycles
// included, is recorded in the status store.
func (r *Runner) Run(ctx context.Context, opts payroll.RunOptions) (payroll.RunSummary, error) {
	started := r.now()
	summary := payroll.RunSummary{
		RunID:     uuid.NewString(),
		Errors:    []payroll.RunError{},
		DryRun:    opts.DryRun,
		Reason:    opts.Reason,
		StartedAt: started.UTC(),
	}

	err := r.runCycle(ctx, opts, &summary)

	finished := r.now()
	summary.FinishedAt = finished.UTC()
	summary.DurationMS = finished.Sub(started).Milliseconds()

	r.recordOutcome(ctx, summary, err)
	return summary, err
}

func (r *Runner) runCycle(ctx context.Context, opts payroll.RunOptions, summary *payroll.RunSummary) error {
	cutoff, err := r.store.CutoffDay(ctx)
	if err != nil {
		return fmt.Errorf("load cutoff day: %w", err)
	}
	resolver, err := NewResolver(cutoff, r.loc)
	if err != nil {
		return err
	}

	periods, err := r.targetPeriods(resolver, opts)
	if err != nil {
		return err
	}
	summary.PeriodsScanned = len(periods)

	var employeeIDs []string
	if opts.EmployeeID != "" {
		// Facade mode: a missing contract is the caller's problem and
		// is surfaced instead of collected.
		if _, err := r.contracts.GetByEmployee(ctx, opts.EmployeeID); err != nil {
			return err
		}
		employeeIDs = []string{opts.EmployeeID}
	} else {
		employeeIDs, err = r.contracts.ListContractedEmployeeIDs(ctx)
		if err != nil {
			return fmt.Errorf("list contracted employees: %w", err)
		}
	}
	summary.UsersScanned = len(employeeIDs)

	for _, employeeID := range employeeIDs {
		for _, period := range periods {
			if err := r.processPair(ctx, resolver, employeeID, period, opts.DryRun, summary); err != nil {
				summary.Errors = append(summary.Errors, payroll.RunError{
					EmployeeID: employeeID,
					Month:      period.Month,
					Year:       period.Year,
					Message:    err.Error(),
				})
				slog.Warn("payroll recompute failed for pair",
					"run_id", summary.RunID,
					"employee_id", employeeID,
					"month", period.Month,
					"year", period.Year,
					"error", err)
			}
		}
	}
	return nil
}

func (r *Runner) targetPeriods(resolver *Resolver, opts payroll.RunOptions) ([]payroll.Period, error) {
	if opts.Month != 0 || opts.Year != 0 {
		if !validator.IsValidMonth(opts.Month) || !validator.IsValidYear(opts.Year) {
			return nil, payroll.ErrInvalidPeriod
		}
		return []payroll.Period{{Month: opts.Month, Year: opts.Year}}, nil
	}
	current := resolver.PeriodFor(r.now())
	return []payroll.Period{current.Prev(), current}, nil
}

func (r *Runner) processPair(ctx context.Context, resolver *Resolver, employeeID string, period payroll.Period, dryRun bool, summary *payroll.RunSummary) error {
	contract, err := r.contracts.GetByEmployee(ctx, employeeID)
	if err != nil {
		return err
	}

	start, end := resolver.Bounds(period)
	attendance, err := r.attendance.ForPeriod(ctx, employeeID, start, end)
	if err != nil {
		return fmt.Errorf("load attendance: %w", err)
	}
	leaves, err := r.leave.ApprovedOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return fmt.Errorf("load leave: %w", err)
	}
	sales, err := r.sales.VolumeForPeriod(ctx, employeeID, start, end)
	if err != nil {
		return fmt.Errorf("load sales volume: %w", err)
	}

	breakdown, err := Calculate(&contract, attendance, leaves, sales, start, end)
	if err != nil {
		return err
	}

	if dryRun {
		existing, err := r.store.repo.GetByEmployeePeriod(ctx, employeeID, period)
		switch {
		case errors.Is(err, payroll.ErrPayrollNotFound):
			summary.Created++
		case err != nil:
			return err
		case existing.Status == payroll.StatusPaid:
			summary.SkippedPaid++
		default:
			summary.Updated++
		}
		return nil
	}

	_, created, err := r.store.Upsert(ctx, employeeID, period, breakdown)
	switch {
	case errors.Is(err, payroll.ErrPayrollLocked):
		// Settled periods are skipped, not failed.
		summary.SkippedPaid++
		return nil
	case err != nil:
		return err
	case created:
		summary.Created++
	default:
		summary.Updated++
	}
	return nil
}

func (r *Runner) recordOutcome(ctx context.Context, summary payroll.RunSummary, runErr error) {
	if r.status != nil {
		r.status.RecordRun(summary, runErr)
	}

	action := "payroll.run_completed"
	details := map[string]any{
		"reason":          summary.Reason,
		"dry_run":         summary.DryRun,
		"users_scanned":   summary.UsersScanned,
		"periods_scanned": summary.PeriodsScanned,
		"created":         summary.Created,
		"updated":         summary.Updated,
		"skipped_paid":    summary.SkippedPaid,
		"error_count":     len(summary.Errors),
		"duration_ms":     summary.DurationMS,
	}
	if runErr != nil {
		action = "payroll.run_failed"
		details["error"] = runErr.Error()
	}
	if r.audit != nil {
		if err := r.audit.Record(ctx, finance.AuditEntry{
			Actor:    "system",
			Action:   action,
			TargetID: summary.RunID,
			Details:  details,
		}); err != nil {
			slog.Warn("audit record failed", "action", action, "run_id", summary.RunID, "error", err)
		}
	}

	if runErr != nil {
		slog.Error("payroll recompute cycle aborted",
			"run_id", summary.RunID,
			"reason", summary.Reason,
			"error", runErr)
		return
	}
	slog.Info("payroll recompute cycle finished",
		"run_id", summary.RunID,
		"reason", summary.Reason,
		"dry_run", summary.DryRun,
		"users_scanned", summary.UsersScanned,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped_paid", summary.SkippedPaid,
		"errors", len(summary.Errors),
		"duration_ms", summary.DurationMS)
}

var _ payroll.BatchRunner = (*Runner)(nil)
