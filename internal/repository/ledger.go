package repository

import (
	"context"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// LedgerReader is the read side of the participation ledger.
// All listings are returned in ledger order (event_date, event_timestamp, seq).
type LedgerReader interface {
	// ListParticipantEvents returns the participant's events dated on or before upTo
	ListParticipantEvents(ctx context.Context, potID, participant string, upTo time.Time) ([]domain.ParticipationEvent, error)
	// ListPotEvents returns every event of the pot dated on or before upTo
	ListPotEvents(ctx context.Context, potID string, upTo time.Time) ([]domain.ParticipationEvent, error)
	// HasJoinOn reports whether the participant has an Entry or ReEntry dated exactly on date
	HasJoinOn(ctx context.Context, potID, participant string, date time.Time) (bool, error)
	// ListParticipantHistory returns all events of the participant regardless of date
	ListParticipantHistory(ctx context.Context, potID, participant string) ([]domain.ParticipationEvent, error)
}

// Ledger is the append-only participation ledger
type Ledger interface {
	LedgerReader
	// AppendEvent inserts exactly one event and sets its Seq
	AppendEvent(ctx context.Context, evt *domain.ParticipationEvent) error
	// ClearLedger deletes every event of the pot
	ClearLedger(ctx context.Context, potID string) (int64, error)
}
