package bootstrap

// File modes for the log directory and session log files
const (
	DirPermission     = 0o755
	LogFilePermission = 0o666
)

// Session log files are named session_<timestamp>.log under LOG_DIR
const (
	LogFileTimestampFormat = "2006-01-02_15-04-05"
	LogFileNamePattern     = "session_%s.log"
	LogFileExtension       = ".log"

	// LogFileRetentionCount excludes the file about to be created
	LogFileRetentionCount = 9
)

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting pot settlement service"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old session log"
)

// Storage
const (
	LogMsgStoreMemory        = "Using in-memory store; state is lost on restart"
	LogMsgStorePostgres      = "Using PostgreSQL store"
	LogMsgMigrationsApplied  = "Database migrations applied"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedMigrate      = "failed to apply migrations"
	ErrMsgUnknownStoreDriver = "unknown store driver"
)

// Event bus and subscribers
const (
	LogMsgEventSystemInitialized         = "Event bus ready"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	LogMsgPendingDeadLetters             = "Dead-letter file has entries; replay with potctl deadletter replay"
	LogMsgMetricsCollectorRegistered     = "Metrics collector subscribed"
	LogMsgEventLoggerInitialized         = "Event log subscribed"
	ErrMsgFailedSubscribeEventLogger     = "failed to subscribe event logger"
)

// Scheduled jobs. Cron specs carry a seconds field and run in the pot
// calendar's location.
const (
	CleanupCron = "0 0 3 * * *"

	JobNamePenaltySweep  = "penalty-sweep"
	JobNameEventlogPurge = "eventlog-retention"
	LogMsgWorkersStarted = "Background workers started"
	LogMsgSweepDisabled  = "Penalty sweep disabled"
	ErrMsgFailedSchedule = "failed to schedule job"
)

// Shutdown
const (
	LogMsgShuttingDownServer         = "Shutting down HTTP server"
	LogMsgShuttingDownWorkers        = "Stopping scheduler and worker pool"
	LogMsgShuttingDownEventPublisher = "Draining event publisher"
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgStoreClosed                = "Store closed"
)
