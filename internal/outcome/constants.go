package outcome

// Log messages
const (
	LogMsgVoteCast        = "Outcome vote cast"
	LogMsgVoteRejected    = "Outcome vote rejected: not an active member"
	LogMsgMajorityReached = "Outcome majority reached"
)

// Error contexts
const (
	ErrContextCastVote = "failed to cast outcome vote"
	ErrContextStatus   = "failed to compute outcome status"
)
