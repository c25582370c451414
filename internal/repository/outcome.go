package repository

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Outcome defines data access for outcome votes
type Outcome interface {
	// UpsertOutcomeVote inserts or overwrites the participant's single vote
	UpsertOutcomeVote(ctx context.Context, vote *domain.OutcomeVote) error
	ListOutcomeVotes(ctx context.Context, potID string) ([]domain.OutcomeVote, error)
	DeleteOutcomeVotes(ctx context.Context, potID string) (int64, error)
}
