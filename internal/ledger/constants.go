package ledger

// Log messages
const (
	LogMsgEventRecorded  = "Participation event recorded"
	LogMsgRecordFailed   = "Failed to record participation event"
	LogMsgHistoryCleared = "Participation history cleared"
	LogMsgClearFailed    = "Failed to clear participation history"
)

// Error contexts
const (
	ErrContextRecordEvent  = "failed to record %s event"
	ErrContextClearHistory = "failed to clear history"
	ErrContextHistory      = "failed to load history"
)
