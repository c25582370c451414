package eventlog

import (
	"context"
	"time"

	"github.com/osse101/PotSettle_Go/internal/logger"
)

// RetentionJob purges audit entries older than the configured number of days.
// It satisfies worker.Job.
type RetentionJob struct {
	svc  Service
	days int
}

// NewRetentionJob returns a job that keeps days worth of events. A
// non-positive days disables the purge.
func NewRetentionJob(svc Service, days int) *RetentionJob {
	return &RetentionJob{svc: svc, days: days}
}

// Process runs one purge
func (j *RetentionJob) Process(ctx context.Context) error {
	if j.days <= 0 {
		return nil
	}
	log := logger.FromContext(ctx).With(LogFieldRetentionDays, j.days)

	start := time.Now()
	removed, err := j.svc.CleanupOldEvents(ctx, j.days)
	if err != nil {
		log.Error(LogMsgRetentionFailed, LogFieldError, err, LogFieldDuration, time.Since(start))
		return err
	}
	log.Info(LogMsgRetentionDone, LogFieldDeletedCount, removed, LogFieldDuration, time.Since(start))
	return nil
}
