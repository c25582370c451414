// Package outcome collects one outcome vote per member and decides the pot's
// real-world outcome by simple majority of currently active members.
package outcome

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/eligibility"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/ledger"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Service defines the outcome consensus operations
type Service interface {
	CastOutcomeVote(ctx context.Context, potID, participant string, vote domain.Direction) (*domain.OutcomeVote, error)
	GetOutcomeStatus(ctx context.Context, potID string) (*domain.OutcomeStatus, error)
}

type service struct {
	store     repository.Store
	cal       *calendar.Calendar
	publisher *event.ResilientPublisher
}

// NewService creates a new outcome consensus service. publisher may be nil.
func NewService(store repository.Store, cal *calendar.Calendar, publisher *event.ResilientPublisher) Service {
	return &service{store: store, cal: cal, publisher: publisher}
}

// CastOutcomeVote requires the caller to be active today and overwrites any
// earlier vote by the same participant.
func (s *service) CastOutcomeVote(ctx context.Context, potID, participant string, vote domain.Direction) (*domain.OutcomeVote, error) {
	log := logger.FromContext(ctx)

	if !vote.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDirection, vote)
	}
	potID, participant, err := ledger.NormalizeKey(potID, participant)
	if err != nil {
		return nil, err
	}

	v := &domain.OutcomeVote{
		PotID:       potID,
		Participant: participant,
		Vote:        vote,
		UpdatedAt:   s.cal.Now().UTC(),
	}

	err = s.store.WithTx(ctx, repository.ReadCommitted, func(q repository.Queries) error {
		active, err := eligibility.NewResolver(q).IsActiveOn(ctx, potID, participant, s.cal.Today())
		if err != nil {
			return err
		}
		if !active {
			return domain.ErrNotAMember
		}
		return q.UpsertOutcomeVote(ctx, v)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotAMember) {
			log.Info(LogMsgVoteRejected, "pot_id", potID, "participant", participant)
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", ErrContextCastVote, err)
	}

	log.Info(LogMsgVoteCast, "pot_id", potID, "participant", participant, "vote", vote)
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewOutcomeVoteEvent(*v))
	}
	return v, nil
}

// GetOutcomeStatus recomputes membership at query time
func (s *service) GetOutcomeStatus(ctx context.Context, potID string) (*domain.OutcomeStatus, error) {
	var status *domain.OutcomeStatus
	err := s.store.WithTx(ctx, repository.RepeatableRead, func(q repository.Queries) error {
		var err error
		status, err = Status(ctx, q, potID, s.cal)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextStatus, err)
	}

	if status.MajorityAchieved {
		logger.FromContext(ctx).Debug(LogMsgMajorityReached, "pot_id", potID, "outcome", *status.MajorityOutcome)
	}
	return status, nil
}

// Status computes the consensus snapshot through q, so settlement can read it
// inside its own transaction. Votes from participants who are no longer
// active are not counted.
func Status(ctx context.Context, q repository.Queries, potID string, cal *calendar.Calendar) (*domain.OutcomeStatus, error) {
	members, err := eligibility.NewResolver(q).EligibleParticipants(ctx, potID, cal.Today())
	if err != nil {
		return nil, err
	}
	votes, err := q.ListOutcomeVotes(ctx, potID)
	if err != nil {
		return nil, err
	}
	return Tally(potID, members, votes), nil
}

// Tally counts votes of the given active members against the majority threshold
func Tally(potID string, activeMembers []string, votes []domain.OutcomeVote) *domain.OutcomeStatus {
	active := make(map[string]struct{}, len(activeMembers))
	for _, m := range activeMembers {
		active[m] = struct{}{}
	}

	status := &domain.OutcomeStatus{
		PotID:         potID,
		ActiveMembers: len(active),
		RequiredVotes: domain.RequiredVotes(len(active)),
	}
	for _, v := range votes {
		if _, ok := active[v.Participant]; !ok {
			continue
		}
		switch v.Vote {
		case domain.DirectionPositive:
			status.PositiveVotes++
		case domain.DirectionNegative:
			status.NegativeVotes++
		}
	}
	status.TotalVotes = status.PositiveVotes + status.NegativeVotes

	// Both sides cannot reach a strict majority at once
	var decided domain.Direction
	switch {
	case status.PositiveVotes >= status.RequiredVotes:
		decided = domain.DirectionPositive
	case status.NegativeVotes >= status.RequiredVotes:
		decided = domain.DirectionNegative
	}
	if decided != "" {
		status.MajorityAchieved = true
		status.MajorityOutcome = &decided
	}
	return status
}
