// Package ledger records participation events. The ledger is append-only: it
// accepts every event the caller reports, in any order, because the on-chain
// action that triggered it is the source of truth.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Service defines the participation ledger operations
type Service interface {
	RecordEntry(ctx context.Context, potID, participant string, date time.Time) (*domain.ParticipationEvent, error)
	RecordReEntry(ctx context.Context, potID, participant string, date time.Time) (*domain.ParticipationEvent, error)
	RecordExit(ctx context.Context, potID, participant string, date time.Time) (*domain.ParticipationEvent, error)
	Record(ctx context.Context, potID, participant string, eventType domain.ParticipationEventType, date time.Time) (*domain.ParticipationEvent, error)
	History(ctx context.Context, potID, participant string) ([]domain.ParticipationEvent, error)
	ClearHistory(ctx context.Context, potID string) (int64, error)
}

type service struct {
	repo      repository.Ledger
	cal       *calendar.Calendar
	publisher *event.ResilientPublisher
}

// NewService creates a new ledger service. publisher may be nil.
func NewService(repo repository.Ledger, cal *calendar.Calendar, publisher *event.ResilientPublisher) Service {
	return &service{repo: repo, cal: cal, publisher: publisher}
}

func (s *service) RecordEntry(ctx context.Context, potID, participant string, date time.Time) (*domain.ParticipationEvent, error) {
	return s.Record(ctx, potID, participant, domain.ParticipationEntry, date)
}

func (s *service) RecordReEntry(ctx context.Context, potID, participant string, date time.Time) (*domain.ParticipationEvent, error) {
	return s.Record(ctx, potID, participant, domain.ParticipationReEntry, date)
}

func (s *service) RecordExit(ctx context.Context, potID, participant string, date time.Time) (*domain.ParticipationEvent, error) {
	return s.Record(ctx, potID, participant, domain.ParticipationExit, date)
}

// Record appends exactly one event stamped with the current instant
func (s *service) Record(ctx context.Context, potID, participant string, eventType domain.ParticipationEventType, date time.Time) (*domain.ParticipationEvent, error) {
	log := logger.FromContext(ctx)

	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEventType, eventType)
	}
	potID, participant, err := NormalizeKey(potID, participant)
	if err != nil {
		return nil, err
	}

	evt := &domain.ParticipationEvent{
		PotID:          potID,
		Participant:    participant,
		Type:           eventType,
		EventDate:      calendar.Truncate(date),
		EventTimestamp: s.cal.Now().UTC(),
	}

	if err := s.repo.AppendEvent(ctx, evt); err != nil {
		log.Error(LogMsgRecordFailed, "pot_id", potID, "participant", participant, "type", eventType, "error", err)
		return nil, fmt.Errorf(ErrContextRecordEvent+": %w", eventType, err)
	}

	log.Info(LogMsgEventRecorded,
		"pot_id", potID,
		"participant", participant,
		"type", eventType,
		"date", calendar.FormatDate(evt.EventDate),
		"seq", evt.Seq)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewParticipationEvent(*evt))
	}
	return evt, nil
}

// History returns every event of the participant in ledger order
func (s *service) History(ctx context.Context, potID, participant string) ([]domain.ParticipationEvent, error) {
	potID, participant, err := NormalizeKey(potID, participant)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.ListParticipantHistory(ctx, potID, participant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextHistory, err)
	}
	return events, nil
}

// ClearHistory deletes every ledger event of the pot. It is irreversible and
// only used when a pot is wound down.
func (s *service) ClearHistory(ctx context.Context, potID string) (int64, error) {
	log := logger.FromContext(ctx)

	potID = strings.TrimSpace(potID)
	if potID == "" {
		return 0, fmt.Errorf("%w: pot id is required", domain.ErrInvalidInput)
	}

	removed, err := s.repo.ClearLedger(ctx, potID)
	if err != nil {
		log.Error(LogMsgClearFailed, "pot_id", potID, "error", err)
		return 0, fmt.Errorf("%s: %w", ErrContextClearHistory, err)
	}

	log.Info(LogMsgHistoryCleared, "pot_id", potID, "removed", removed)
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.New(event.LedgerCleared, event.LedgerClearedPayloadV1{PotID: potID, Removed: removed}))
	}
	return removed, nil
}

// NormalizeKey trims the pot id and normalizes the participant. Both are required.
func NormalizeKey(potID, participant string) (string, string, error) {
	potID = strings.TrimSpace(potID)
	if potID == "" {
		return "", "", fmt.Errorf("%w: pot id is required", domain.ErrInvalidInput)
	}
	participant = domain.NormalizeParticipant(participant)
	if participant == "" {
		return "", "", domain.ErrEmptyParticipant
	}
	return potID, participant, nil
}
