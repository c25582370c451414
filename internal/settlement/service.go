// Package settlement turns a decided outcome and the day's predictions into
// the winner list handed to escrow.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/outcome"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Service defines the settlement operations
type Service interface {
	ComputeWinners(ctx context.Context, potID string, date time.Time) ([]string, error)
	Settle(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error)
	GetSettlement(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error)
	Distribute(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error)
}

type service struct {
	store     repository.Store
	cal       *calendar.Calendar
	escrow    Escrow
	publisher *event.ResilientPublisher
}

// NewService creates a new settlement service. A nil escrow logs the hand-off;
// publisher may be nil.
func NewService(store repository.Store, cal *calendar.Calendar, escrow Escrow, publisher *event.ResilientPublisher) Service {
	if escrow == nil {
		escrow = LogEscrow{}
	}
	return &service{store: store, cal: cal, escrow: escrow, publisher: publisher}
}

// ComputeWinners returns the participants whose prediction for date matches
// the decided outcome
func (s *service) ComputeWinners(ctx context.Context, potID string, date time.Time) ([]string, error) {
	snap, err := s.Settle(ctx, potID, date)
	if err != nil {
		return nil, err
	}
	return snap.Winners, nil
}

// Settle returns the winner snapshot for (pot, date), taking it on first
// call. Later vote changes do not alter an existing snapshot.
func (s *service) Settle(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error) {
	log := logger.FromContext(ctx)
	date = calendar.Truncate(date)

	existing, err := s.store.GetSettlement(ctx, potID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextCompute, err)
	}
	if existing != nil {
		log.Debug(LogMsgSnapshotReused, "pot_id", potID, "date", calendar.FormatDate(date))
		return existing, nil
	}

	var snap *domain.Settlement
	err = s.store.WithTx(ctx, repository.RepeatableRead, func(q repository.Queries) error {
		var err error
		snap, err = s.compute(ctx, q, potID, date)
		return err
	})
	if err != nil {
		var notDecided *domain.OutcomeNotDecidedError
		switch {
		case errors.As(err, &notDecided):
			log.Info(LogMsgOutcomeNotDecided, "pot_id", potID, "votes", notDecided.Status.TotalVotes, "required", notDecided.Status.RequiredVotes)
			return nil, err
		case errors.Is(err, domain.ErrNoWinners):
			log.Info(LogMsgNoWinners, "pot_id", potID, "date", calendar.FormatDate(date))
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrContextCompute, err)
	}

	inserted, err := s.store.SaveSettlement(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextCompute, err)
	}
	if !inserted {
		// A concurrent caller took the snapshot first; theirs is authoritative
		winner, err := s.store.GetSettlement(ctx, potID, date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextCompute, err)
		}
		if winner == nil {
			// The conflicting snapshot is gone again, which only a teardown does
			log.Warn(LogMsgSnapshotVanished, "pot_id", potID, "date", calendar.FormatDate(date))
			return nil, fmt.Errorf("%s: %w", ErrContextCompute, domain.ErrPotNotFound)
		}
		return winner, nil
	}

	log.Info(LogMsgSnapshotTaken, "pot_id", potID, "date", calendar.FormatDate(date), "outcome", snap.Outcome, "winners", len(snap.Winners))
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewSettlementEvent(event.SettlementComputed, *snap))
	}
	return snap, nil
}

func (s *service) compute(ctx context.Context, q repository.Queries, potID string, date time.Time) (*domain.Settlement, error) {
	status, err := outcome.Status(ctx, q, potID, s.cal)
	if err != nil {
		return nil, err
	}
	if !status.MajorityAchieved || status.MajorityOutcome == nil {
		return nil, &domain.OutcomeNotDecidedError{Status: *status}
	}

	predictions, err := q.ListPredictions(ctx, potID, date)
	if err != nil {
		return nil, err
	}

	winners := Winners(predictions, *status.MajorityOutcome)
	if len(winners) == 0 {
		return nil, domain.ErrNoWinners
	}

	return &domain.Settlement{
		PotID:          potID,
		SettlementDate: date,
		Outcome:        *status.MajorityOutcome,
		Winners:        winners,
		ComputedAt:     s.cal.Now().UTC(),
	}, nil
}

// Winners returns the distinct, sorted participants whose prediction matches
// the outcome
func Winners(predictions []domain.Prediction, decided domain.Direction) []string {
	seen := make(map[string]struct{})
	winners := []string{}
	for _, p := range predictions {
		if p.Direction != decided {
			continue
		}
		if _, dup := seen[p.Participant]; dup {
			continue
		}
		seen[p.Participant] = struct{}{}
		winners = append(winners, p.Participant)
	}
	sort.Strings(winners)
	return winners
}

// GetSettlement returns nil, nil when no snapshot exists
func (s *service) GetSettlement(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error) {
	snap, err := s.store.GetSettlement(ctx, potID, calendar.Truncate(date))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGet, err)
	}
	return snap, nil
}

// Distribute hands the snapshot's winners to escrow. Escrow errors propagate;
// the snapshot stays so a retry sends the same list.
func (s *service) Distribute(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error) {
	log := logger.FromContext(ctx)

	snap, err := s.Settle(ctx, potID, date)
	if err != nil {
		return nil, err
	}

	if err := s.escrow.Distribute(ctx, potID, snap.Winners); err != nil {
		log.Error(LogMsgDistributeFailed, "pot_id", potID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrContextDistribute, err)
	}

	log.Info(LogMsgDistributed, "pot_id", potID, "winners", len(snap.Winners))
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewSettlementEvent(event.SettlementSent, *snap))
	}
	return snap, nil
}
