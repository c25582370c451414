package prediction

// Log messages
const (
	LogMsgPredictionSubmitted = "Prediction submitted"
	LogMsgSubmitFailed        = "Failed to submit prediction"
)

// Error contexts
const (
	ErrContextSubmit = "failed to submit prediction"
	ErrContextGet    = "failed to get prediction"
	ErrContextList   = "failed to list predictions"
)
