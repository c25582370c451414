package eventlog

// JSON payload field keys
const (
	PayloadKeyPotID       = "pot_id"
	PayloadKeyParticipant = "participant"
	PayloadKeyActor       = "actor"
)

// Query limits
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Log messages - service events
const (
	LogMsgEventPayloadNotMap = "Event payload could not be decoded, skipping log"
	LogMsgFailedToLogEvent   = "Failed to log event"
	LogMsgEventLogged        = "Event logged"
)

// Log messages - retention job
const (
	LogMsgRetentionFailed = "Event log retention purge failed"
	LogMsgRetentionDone   = "Event log retention purge completed"
)

// Log field keys
const (
	LogFieldType          = "type"
	LogFieldPotID         = "pot_id"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retention_days"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deleted"
)
