package repository

import (
	"context"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Settlement defines data access for winner snapshots
type Settlement interface {
	// SaveSettlement stores the snapshot unless one exists for (pot, date).
	// It reports whether a row was inserted.
	SaveSettlement(ctx context.Context, s *domain.Settlement) (bool, error)
	// GetSettlement returns nil, nil when no snapshot exists
	GetSettlement(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error)
	DeleteSettlements(ctx context.Context, potID string) (int64, error)
}
