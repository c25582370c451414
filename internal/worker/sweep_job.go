package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/penalty"
)

// Sweeper is the part of the penalty service the sweep job needs
type Sweeper interface {
	SweepAll(ctx context.Context) (*penalty.SweepSummary, error)
}

// PenaltySweepJob applies missed-prediction penalties across every pot.
// It runs near the end of each civil day so that participants who never
// predicted that day are penalized even if they never come back.
// Overlapping runs are skipped.
type PenaltySweepJob struct {
	sweeper Sweeper
	timeout time.Duration
	running atomic.Bool
	last    atomic.Pointer[penalty.SweepSummary]
}

// NewPenaltySweepJob creates the sweep job. A zero timeout disables the deadline.
func NewPenaltySweepJob(sweeper Sweeper, timeout time.Duration) *PenaltySweepJob {
	return &PenaltySweepJob{sweeper: sweeper, timeout: timeout}
}

// Process runs one scheduled sweep. A tick that lands on a running sweep is
// skipped.
func (j *PenaltySweepJob) Process(ctx context.Context) error {
	err := j.run(ctx)
	if errors.Is(err, domain.ErrSweepInProgress) {
		logger.FromContext(ctx).Warn(LogMsgSweepAlreadyActive)
		return nil
	}
	return err
}

func (j *PenaltySweepJob) run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if !j.running.CompareAndSwap(false, true) {
		return domain.ErrSweepInProgress
	}
	defer j.running.Store(false)

	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	log.Info(LogMsgSweepStarting)
	start := time.Now()
	summary, err := j.sweeper.SweepAll(ctx)
	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err, "duration", time.Since(start))
		return err
	}

	j.last.Store(summary)
	log.Info(LogMsgSweepCompleted,
		"pots", summary.Pots,
		"checked", summary.Checked,
		"penalized", summary.Penalized,
		"failed", summary.Failed,
		"duration", time.Since(start))
	return nil
}

// Trigger runs a sweep synchronously, outside the schedule. It returns
// domain.ErrSweepInProgress instead of waiting when a sweep is already running.
func (j *PenaltySweepJob) Trigger(ctx context.Context) (*penalty.SweepSummary, error) {
	logger.FromContext(ctx).Info(LogMsgSweepManualTrigger)
	if err := j.run(ctx); err != nil {
		return nil, err
	}
	return j.LastSummary(), nil
}

// LastSummary returns the result of the most recent successful sweep, or nil
func (j *PenaltySweepJob) LastSummary() *penalty.SweepSummary {
	return j.last.Load()
}
