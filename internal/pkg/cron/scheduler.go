package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Schedule yields the next firing time strictly after the given
// instant.
type Schedule interface {
	Next(after time.Time) time.Time
}

// Every fires at a fixed interval.
type Every time.Duration

func (e Every) Next(after time.Time) time.Time {
	return after.Add(time.Duration(e))
}

// Daily fires once per day at a local wall-clock time. time.Date
// normalizes the computed instant, so DST transitions shift the firing
// moment with the clock instead of skipping a day.
type Daily struct {
	Hour   int
	Minute int
	Loc    *time.Location
}

func (d Daily) Next(after time.Time) time.Time {
	loc := d.Loc
	if loc == nil {
		loc = time.UTC
	}
	at := after.In(loc)
	next := time.Date(at.Year(), at.Month(), at.Day(), d.Hour, d.Minute, 0, 0, loc)
	if !next.After(after) {
		next = time.Date(at.Year(), at.Month(), at.Day()+1, d.Hour, d.Minute, 0, 0, loc)
	}
	return next
}

// Job represents a scheduled job
type Job struct {
	Name     string
	Schedule Schedule
	Fn       func(ctx context.Context) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds an interval-based job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.addJob(Job{Name: name, Schedule: Every(interval), Fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddDailyJob adds a job firing once per day at a local wall-clock time
func (s *Scheduler) AddDailyJob(name string, hour, minute int, loc *time.Location, fn func(ctx context.Context) error) {
	s.addJob(Job{Name: name, Schedule: Daily{Hour: hour, Minute: minute, Loc: loc}, Fn: fn})
	slog.Info("Cron job registered", "name", name, "at", time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04"), "timezone", loc.String())
}

func (s *Scheduler) addJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runJob sleeps until each firing time in turn. The next firing is
// computed from the time the previous execution finished, so a cycle
// running past its own schedule never stacks a second run behind it.
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	timer := time.NewTimer(time.Until(job.Schedule.Next(time.Now())))
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			s.executeJob(job)
			timer.Reset(time.Until(job.Schedule.Next(time.Now())))
		}
	}
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
