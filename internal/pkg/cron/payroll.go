package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/pkg/lock"
)

// recomputeLock is shared by every instance; whichever acquires it
// first runs the daily cycle, the rest skip.
const recomputeLock = "payroll:recompute"

// StatusRecorder receives slot-level outcomes the runner itself never
// sees, like a cycle skipped because another instance holds the lock.
type StatusRecorder interface {
	RecordSkipped()
}

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	runner payroll.BatchRunner
	locks  lock.ClusterLock
	status StatusRecorder
}

// NewPayrollJobs creates payroll cron jobs. status may be nil.
func NewPayrollJobs(runner payroll.BatchRunner, locks lock.ClusterLock, status StatusRecorder) *PayrollJobs {
	return &PayrollJobs{
		runner: runner,
		locks:  locks,
		status: status,
	}
}

// RegisterJobs registers the daily recompute at the configured local
// wall-clock time
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, hour, minute int, loc *time.Location) {
	scheduler.AddDailyJob("payroll_recompute", hour, minute, loc, j.RunScheduledCycle)
}

// RunScheduledCycle runs one recompute cycle under the cluster lock so
// that exactly one instance executes it per scheduled slot.
func (j *PayrollJobs) RunScheduledCycle(ctx context.Context) error {
	lease, err := j.locks.TryAcquire(ctx, recomputeLock)
	if err != nil {
		return err
	}
	if lease == nil {
		slog.Info("Payroll recompute already running elsewhere, skipping", "lock", recomputeLock)
		if j.status != nil {
			j.status.RecordSkipped()
		}
		return nil
	}
	defer func() {
		// Stop() cancels ctx for in-flight cycles; the unlock must
		// still go through or the session keeps the lock.
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release payroll recompute lock", "lock", recomputeLock, "error", err)
		}
	}()

	_, err = j.runner.Run(ctx, payroll.RunOptions{Reason: "scheduled"})
	return err
}
