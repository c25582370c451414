package event

import "time"

// EventSchemaVersion is stamped on events that do not carry one
const EventSchemaVersion = "1.0"

// RetryQueueBufferSize bounds the background retry queue
const RetryQueueBufferSize = 1000

// Dead-letter file layout
const (
	DeadLetterSchemaVersion   = "1.0"
	DeadLetterFilePermissions = 0o644
	maxDeadLetterLine         = 1 << 20
)

// Log messages
const (
	LogMsgEventPublishFailed    = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull        = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterWriteFailed = "Failed to write to dead letter"
	LogMsgEventDeadLettered     = "Event dead-lettered"
	LogMsgEventRetryExhausted   = "Event retry exhausted, writing to dead-letter"
	LogMsgEventRetryFailed      = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded   = "Event retry succeeded"
	LogMsgEventDroppedShutdown  = "Event dropped during shutdown"
	LogMsgQueueDrainedShutdown  = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout       = "Resilient publisher shutdown timed out"
	LogMsgReplayFailed          = "Dead-lettered event replay failed"
)

// CalculateRetryDelay doubles baseDelay for each attempt after the first
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseDelay << (attempt - 1)
}

const dateLayout = "2006-01-02"
