package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Operation names used when wrapping store errors
const (
	OpBeginTx            = "begin transaction"
	OpCommitTx           = "commit transaction"
	OpCreatePot          = "create pot"
	OpGetPot             = "get pot"
	OpListPots           = "list pots"
	OpUpdatePot          = "update pot"
	OpDeletePot          = "delete pot"
	OpAppendEvent        = "append participation event"
	OpListEvents         = "list participation events"
	OpHasJoinOn          = "check same-day join"
	OpClearLedger        = "clear ledger"
	OpUpsertPrediction   = "upsert prediction"
	OpGetPrediction      = "get prediction"
	OpListPredictions    = "list predictions"
	OpDeletePredictions  = "delete predictions"
	OpInsertPenalty      = "insert penalty"
	OpHasPenalty         = "check penalty"
	OpListPenalties      = "list penalties"
	OpDeletePenalties    = "delete penalties"
	OpUpsertOutcomeVote  = "upsert outcome vote"
	OpListOutcomeVotes   = "list outcome votes"
	OpDeleteOutcomeVotes = "delete outcome votes"
	OpSaveSettlement     = "save settlement"
	OpGetSettlement      = "get settlement"
	OpDeleteSettlements  = "delete settlements"
	OpLogEvent           = "log event"
	OpGetEvents          = "get events"
	OpCleanupEvents      = "cleanup events"
	OpPing               = "ping"
)

// Log messages
const (
	LogMsgRollbackFailed = "Failed to rollback transaction"
)
