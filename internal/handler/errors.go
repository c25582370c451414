package handler

// Client-facing error messages. Internal error text never reaches a response.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidDateParam  = "Invalid date, expected YYYY-MM-DD"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidSince      = "Invalid 'since' timestamp format (use RFC3339)"
	ErrMsgInvalidUntil      = "Invalid 'until' timestamp format (use RFC3339)"
	ErrMsgUnknownEventType  = "Unknown event_type"

	ErrMsgMetricsFailed  = "Failed to gather metrics"
	ErrMsgInvalidPayload = "Invalid payload JSON"
	ErrMsgEncodeFailed   = "Failed to encode response"
)

// Success messages for API responses
const (
	MsgPotTornDown     = "Pot torn down"
	MsgSweepCompleted  = "Penalty sweep completed"
	MsgNoSettlementYet = "No settlement has been taken for this date"
	MsgEventBroadcast  = "Event broadcast"
)
