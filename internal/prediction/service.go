// Package prediction stores one directional call per participant, pot and day
package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/ledger"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Service defines the interface for prediction operations
type Service interface {
	SubmitPrediction(ctx context.Context, potID, participant string, date time.Time, direction domain.Direction) (*domain.Prediction, error)
	GetPrediction(ctx context.Context, potID, participant string, date time.Time) (*domain.Prediction, error)
	GetAllPredictions(ctx context.Context, potID string, date time.Time) ([]domain.Prediction, error)
}

type service struct {
	repo               repository.Prediction
	cal                *calendar.Calendar
	resilientPublisher *event.ResilientPublisher
}

// NewService creates a new prediction service. resilientPublisher may be nil.
func NewService(repo repository.Prediction, cal *calendar.Calendar, resilientPublisher *event.ResilientPublisher) Service {
	return &service{
		repo:               repo,
		cal:                cal,
		resilientPublisher: resilientPublisher,
	}
}

// SubmitPrediction upserts the prediction. A repeat submission for the same
// key overwrites the direction and refreshes created_at.
func (s *service) SubmitPrediction(ctx context.Context, potID, participant string, date time.Time, direction domain.Direction) (*domain.Prediction, error) {
	log := logger.FromContext(ctx)

	if !direction.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, direction)
	}
	potID, participant, err := ledger.NormalizeKey(potID, participant)
	if err != nil {
		return nil, err
	}

	p := &domain.Prediction{
		PotID:          potID,
		Participant:    participant,
		PredictionDate: calendar.Truncate(date),
		Direction:      direction,
		CreatedAt:      s.cal.Now().UTC(),
	}

	if err := s.repo.UpsertPrediction(ctx, p); err != nil {
		log.Error(LogMsgSubmitFailed, "pot_id", potID, "participant", participant, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrContextSubmit, err)
	}

	log.Info(LogMsgPredictionSubmitted,
		"pot_id", potID,
		"participant", participant,
		"date", calendar.FormatDate(p.PredictionDate),
		"direction", direction)

	if s.resilientPublisher != nil {
		s.resilientPublisher.PublishWithRetry(ctx, event.NewPredictionEvent(*p))
	}
	return p, nil
}

// GetPrediction returns nil, nil when the participant has not predicted
func (s *service) GetPrediction(ctx context.Context, potID, participant string, date time.Time) (*domain.Prediction, error) {
	potID, participant, err := ledger.NormalizeKey(potID, participant)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.GetPrediction(ctx, potID, participant, calendar.Truncate(date))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGet, err)
	}
	return p, nil
}

func (s *service) GetAllPredictions(ctx context.Context, potID string, date time.Time) ([]domain.Prediction, error) {
	predictions, err := s.repo.ListPredictions(ctx, potID, calendar.Truncate(date))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextList, err)
	}
	return predictions, nil
}
