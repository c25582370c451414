package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Resolver answers membership questions against a ledger reader. Built over
// a transaction it sees that transaction's read view.
type Resolver struct {
	ledger repository.LedgerReader
}

// NewResolver creates a Resolver
func NewResolver(ledger repository.LedgerReader) *Resolver {
	return &Resolver{ledger: ledger}
}

// IsActiveOn reports whether the participant was an active member on date.
// An entry dated on date itself counts.
func (r *Resolver) IsActiveOn(ctx context.Context, potID, participant string, date time.Time) (bool, error) {
	participant = domain.NormalizeParticipant(participant)
	if participant == "" {
		return false, domain.ErrEmptyParticipant
	}

	events, err := r.ledger.ListParticipantEvents(ctx, potID, participant, calendar.Truncate(date))
	if err != nil {
		return false, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return IsActive(events), nil
}

// EligibleParticipants returns every participant active on date, sorted
func (r *Resolver) EligibleParticipants(ctx context.Context, potID string, date time.Time) ([]string, error) {
	events, err := r.ledger.ListPotEvents(ctx, potID, calendar.Truncate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve eligible participants: %w", err)
	}
	return Active(events), nil
}

// CountActive returns the number of participants active on date
func (r *Resolver) CountActive(ctx context.Context, potID string, date time.Time) (int, error) {
	participants, err := r.EligibleParticipants(ctx, potID, date)
	if err != nil {
		return 0, err
	}
	return len(participants), nil
}
