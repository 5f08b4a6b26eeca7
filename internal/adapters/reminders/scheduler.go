// Package reminders runs the scheduled reminder sweep.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRunTimeout bounds a single sweep.
const DefaultRunTimeout = 5 * time.Minute

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("reminder scheduler already started")

// Job is one sweep, typically orchestrators.ExecuteSendReminders bound to its deps.
type Job func(ctx context.Context) error

// Scheduler runs Job on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	job     Job
	timeout time.Duration

	mu      sync.Mutex
	started bool
	running bool
}

// NewScheduler validates spec and prepares a scheduler in loc.
// PRE: spec is a standard five-field cron expression
// POST: Returns a stopped Scheduler, or an error for an unparsable spec
func NewScheduler(spec string, loc *time.Location, job Job) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("reminder job is required")
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		spec:    spec,
		job:     job,
		timeout: DefaultRunTimeout,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("parse reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing the job in a background goroutine.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.cron.Start()
	slog.Info("reminder_event", "event", "scheduler_started", "schedule", s.spec)
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("reminder_event", "event", "scheduler_stop_timeout")
	}
	slog.Info("reminder_event", "event", "scheduler_stopped")
}

// Next reports the next time the job will fire. Zero until Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow performs one sweep immediately, honouring the overlap guard.
// Returns false when a sweep was already in progress.
func (s *Scheduler) RunNow(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false, nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	err := s.job(ctx)
	if err != nil {
		slog.Error("reminder_event", "event", "sweep_failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return true, err
	}
	slog.Info("reminder_event", "event", "sweep_complete", "duration_ms", time.Since(start).Milliseconds())
	return true, nil
}

func (s *Scheduler) tick() {
	ran, _ := s.RunNow(context.Background())
	if !ran {
		slog.Warn("reminder_event", "event", "sweep_skipped_overlap")
	}
}
