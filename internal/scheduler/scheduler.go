// Package scheduler enqueues jobs onto the worker pool on cron schedules
// evaluated in the pot calendar's time zone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/worker"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	workerPool *worker.Pool
	cron       *cron.Cron
}

// New creates a new scheduler. Cron specs carry a leading seconds field.
func New(pool *worker.Pool, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		workerPool: pool,
		cron:       cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
	}
}

// Schedule registers a job under a cron spec such as "0 55 23 * * *".
// A firing whose job cannot be queued is dropped rather than blocking the
// cron goroutine.
func (s *Scheduler) Schedule(spec, name string, job worker.Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		if !s.workerPool.TryEnqueue(job) {
			logger.FromContext(context.Background()).Warn("Scheduled job dropped", "job", name)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// Every registers a job at a fixed interval
func (s *Scheduler) Every(interval time.Duration, name string, job worker.Job) error {
	return s.Schedule("@every "+interval.String(), name, job)
}

// Next returns the next firing time across all entries, or the zero time
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops firing new jobs and waits for in-progress enqueues to return
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
