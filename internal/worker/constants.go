package worker

import "time"

// DefaultSweepTimeout bounds one full penalty sweep across all pots
const DefaultSweepTimeout = 10 * time.Minute

// Pool
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgJobDropped        = "Worker queue full, job dropped"
	LogMsgPoolStopping      = "Worker pool stopping"
)

// Penalty sweep
const (
	LogMsgSweepStarting      = "Penalty sweep starting"
	LogMsgSweepCompleted     = "Penalty sweep completed"
	LogMsgSweepFailed        = "Penalty sweep failed"
	LogMsgSweepManualTrigger = "Penalty sweep manually triggered"
	LogMsgSweepAlreadyActive = "Penalty sweep already running, skipping"
)
