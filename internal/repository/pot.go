package repository

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Pot defines data access for pot master records
type Pot interface {
	// CreatePot inserts a pot; returns domain.ErrPotAlreadyExists on duplicate ID
	CreatePot(ctx context.Context, pot *domain.Pot) error
	// GetPot returns nil, nil when the pot does not exist
	GetPot(ctx context.Context, potID string) (*domain.Pot, error)
	ListPots(ctx context.Context, limit int) ([]domain.Pot, error)
	// ListPotIDs includes pots known only from ledger events
	ListPotIDs(ctx context.Context) ([]string, error)
	UpdatePot(ctx context.Context, pot *domain.Pot) error
	DeletePot(ctx context.Context, potID string) error
}
