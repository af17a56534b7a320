package payroll

import (
	"sync"
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
)

// StatusStore holds the process-wide automation state read by the
// status endpoint. Reset at process start, written at the end of every
// cycle (scheduled or manual).
type StatusStore struct {
	mu sync.RWMutex

	enabled  bool
	hour     int
	minute   int
	timezone string

	lastRunAt     *time.Time
	lastSuccessAt *time.Time
	lastSkippedAt *time.Time
	lastError     string
	lastSummary   *payroll.RunSummary
}

func NewStatusStore(enabled bool, hour, minute int, timezone string) *StatusStore {
	return &StatusStore{
		enabled:  enabled,
		hour:     hour,
		minute:   minute,
		timezone: timezone,
	}
}

// RecordRun stores the outcome of one completed cycle.
func (s *StatusStore) RecordRun(summary payroll.RunSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := summary.FinishedAt
	if finished.IsZero() {
		finished = time.Now().UTC()
	}
	s.lastRunAt = &finished
	s.lastSummary = &summary
	if err != nil {
		s.lastError = err.Error()
		return
	}
	s.lastError = ""
	s.lastSuccessAt = &finished
}

// RecordSkipped notes a scheduled slot that was skipped because
// another instance held the cluster lock.
func (s *StatusStore) RecordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.lastSkippedAt = &now
}

// Snapshot returns the current state for the status endpoint.
func (s *StatusStore) Snapshot() payroll.AutomationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return payroll.AutomationStatus{
		Enabled:             s.enabled,
		ScheduleHourLocal:   s.hour,
		ScheduleMinuteLocal: s.minute,
		Timezone:            s.timezone,
		LastRunAt:           s.lastRunAt,
		LastSuccessAt:       s.lastSuccessAt,
		LastSkippedAt:       s.lastSkippedAt,
		LastError:           s.lastError,
		LastSummary:         s.lastSummary,
	}
}
