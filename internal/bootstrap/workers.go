package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/eventlog"
	"github.com/osse101/PotSettle_Go/internal/scheduler"
	"github.com/osse101/PotSettle_Go/internal/worker"
)

// Workers are the background pool, the cron scheduler feeding it, and the
// penalty sweep job (nil when the sweep is disabled)
type Workers struct {
	Pool      *worker.Pool
	Scheduler *scheduler.Scheduler
	Sweep     *worker.PenaltySweepJob
}

// InitializeWorkers schedules the penalty sweep and the event log retention
// job. Nothing runs until Start.
func InitializeWorkers(cfg *config.Config, cal *calendar.Calendar, services *Services) (*Workers, error) {
	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	sched := scheduler.New(pool, cal.Location())
	w := &Workers{Pool: pool, Scheduler: sched}

	if cfg.SweepEnabled {
		w.Sweep = worker.NewPenaltySweepJob(services.Penalties, worker.DefaultSweepTimeout)
		if err := sched.Schedule(cfg.SweepCron, JobNamePenaltySweep, w.Sweep); err != nil {
			return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedSchedule, JobNamePenaltySweep, err)
		}
	} else {
		slog.Info(LogMsgSweepDisabled)
	}

	if cfg.EventRetentionDays > 0 {
		cleanup := eventlog.NewRetentionJob(services.EventLog, cfg.EventRetentionDays)
		if err := sched.Schedule(CleanupCron, JobNameEventlogPurge, cleanup); err != nil {
			return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedSchedule, JobNameEventlogPurge, err)
		}
	}

	return w, nil
}

// Start launches the pool and then the scheduler
func (w *Workers) Start() {
	w.Pool.Start()
	w.Scheduler.Start()
	slog.Info(LogMsgWorkersStarted, "next_run", w.Scheduler.Next())
}

// Stop halts the scheduler before the pool so no job is enqueued after the
// pool has stopped
func (w *Workers) Stop() {
	w.Scheduler.Stop()
	w.Pool.Stop()
}
