package repository

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Penalty defines data access for missed-prediction penalties
type Penalty interface {
	// InsertPenalty inserts the record unless one already exists for
	// (pot, participant). It reports whether a row was inserted.
	InsertPenalty(ctx context.Context, rec *domain.PenaltyRecord) (bool, error)
	HasPenalty(ctx context.Context, potID, participant string) (bool, error)
	ListPenalties(ctx context.Context, potID string) ([]domain.PenaltyRecord, error)
	DeletePenalties(ctx context.Context, potID string) (int64, error)
}
