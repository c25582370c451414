package repository

import (
	"context"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Prediction defines data access for daily predictions
type Prediction interface {
	// UpsertPrediction inserts or overwrites direction and created_at for the key
	UpsertPrediction(ctx context.Context, p *domain.Prediction) error
	// GetPrediction returns nil, nil when no prediction exists
	GetPrediction(ctx context.Context, potID, participant string, date time.Time) (*domain.Prediction, error)
	ListPredictions(ctx context.Context, potID string, date time.Time) ([]domain.Prediction, error)
	DeletePredictions(ctx context.Context, potID string) (int64, error)
}
