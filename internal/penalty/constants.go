package penalty

// Log messages
const (
	LogMsgPenaltyApplied    = "Missed prediction penalty applied"
	LogMsgPenaltyNoAction   = "Penalty check finished without action"
	LogMsgPenaltyCheckError = "Penalty check failed"
	LogMsgSweepStarted      = "Penalty sweep started"
	LogMsgSweepFinished     = "Penalty sweep finished"
	LogMsgSweepPotFailed    = "Penalty sweep failed for pot"
)

// Error contexts
const (
	ErrContextCheck       = "failed to check missed prediction"
	ErrContextIsPenalized = "failed to look up penalty"
	ErrContextSweep       = "failed to sweep pot"
	ErrContextListPots    = "failed to list pots for sweep"
)

// lockKeySeparator joins pot and participant into a lock key
const lockKeySeparator = "|"
