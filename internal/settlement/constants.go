package settlement

// Log messages
const (
	LogMsgSnapshotReused    = "Settlement snapshot already taken"
	LogMsgSnapshotTaken     = "Settlement snapshot taken"
	LogMsgSnapshotVanished  = "Settlement snapshot conflict but no snapshot found"
	LogMsgOutcomeNotDecided = "Settlement blocked: outcome not decided"
	LogMsgNoWinners         = "Settlement blocked: no winners"
	LogMsgDistributed       = "Winner list handed to escrow"
	LogMsgDistributeFailed  = "Escrow distribution failed"
	LogMsgEscrowHandOff     = "Escrow distribution requested"
)

// Error contexts
const (
	ErrContextCompute    = "failed to compute winners"
	ErrContextGet        = "failed to get settlement"
	ErrContextDistribute = "escrow distribution failed"
)
