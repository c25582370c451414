package domain

// Event types published on the event bus
const (
	EventTypePotCreated          = "pot.created"
	EventTypePotUpdated          = "pot.updated"
	EventTypePotTornDown         = "pot.torn_down"
	EventTypeParticipationLogged = "ledger.event_recorded"
	EventTypeLedgerCleared       = "ledger.cleared"
	EventTypePredictionSubmitted = "prediction.submitted"
	EventTypePenaltyApplied      = "penalty.applied"
	EventTypeOutcomeVoteCast     = "outcome.vote_cast"
	EventTypeSettlementComputed  = "settlement.computed"
	EventTypeSettlementSent      = "settlement.distributed"
	EventTypeSweepCompleted      = "penalty.sweep_completed"
)
