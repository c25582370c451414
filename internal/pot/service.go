// Package pot manages pot master records. Only the creator may change or
// tear down a pot.
package pot

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/logger"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// CreateRequest carries the fields of a new pot. ID is optional; when empty a
// UUID is assigned. Contract-backed pots pass the contract address.
type CreateRequest struct {
	ID          string
	Creator     string
	Name        string
	Description string
	EntryAmount decimal.Decimal
}

// TeardownResult counts the rows removed by a teardown
type TeardownResult struct {
	PotID        string `json:"pot_id"`
	LedgerEvents int64  `json:"ledger_events"`
	Predictions  int64  `json:"predictions"`
	Penalties    int64  `json:"penalties"`
	OutcomeVotes int64  `json:"outcome_votes"`
	Settlements  int64  `json:"settlements"`
}

// Service defines the pot registry operations
type Service interface {
	CreatePot(ctx context.Context, req CreateRequest) (*domain.Pot, error)
	GetPot(ctx context.Context, potID string) (*domain.Pot, error)
	ListPots(ctx context.Context, limit int) ([]domain.Pot, error)
	UpdatePot(ctx context.Context, potID, caller string, patch domain.PotPatch) (*domain.Pot, error)
	TeardownPot(ctx context.Context, potID, caller string) (*TeardownResult, error)
}

type service struct {
	store     repository.Store
	cal       *calendar.Calendar
	cache     *potCache
	publisher *event.ResilientPublisher
}

// NewService creates a new pot registry. publisher may be nil.
func NewService(store repository.Store, cal *calendar.Calendar, cacheSize int, cacheTTL time.Duration, publisher *event.ResilientPublisher) Service {
	return &service{
		store:     store,
		cal:       cal,
		cache:     newPotCache(cacheSize, cacheTTL),
		publisher: publisher,
	}
}

func (s *service) CreatePot(ctx context.Context, req CreateRequest) (*domain.Pot, error) {
	log := logger.FromContext(ctx)

	creator := domain.NormalizeParticipant(req.Creator)
	if creator == "" {
		return nil, domain.ErrEmptyParticipant
	}
	name, err := normalizeText(req.Name, MaxNameLength, "name")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	description, err := normalizeText(req.Description, MaxDescriptionLength, "description")
	if err != nil {
		return nil, err
	}
	if req.EntryAmount.IsNegative() {
		return nil, fmt.Errorf("%w: entry amount must not be negative", domain.ErrInvalidInput)
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := s.cal.Now().UTC()
	p := &domain.Pot{
		ID:          id,
		Creator:     creator,
		Name:        name,
		Description: description,
		EntryAmount: req.EntryAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreatePot(ctx, p); err != nil {
		log.Error(LogMsgCreateFailed, "pot_id", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrContextCreate, err)
	}

	s.cache.Set(p)
	log.Info(LogMsgPotCreated, "pot_id", id, "creator", creator, "entry_amount", p.EntryAmount.String())
	s.publish(ctx, event.PotCreated, p.ID, creator, p.Name)
	return p, nil
}

// GetPot returns domain.ErrPotNotFound when the pot does not exist
func (s *service) GetPot(ctx context.Context, potID string) (*domain.Pot, error) {
	potID = strings.TrimSpace(potID)
	if p, ok := s.cache.Get(potID); ok {
		logger.FromContext(ctx).Debug(LogMsgCacheHit, "pot_id", potID)
		return p, nil
	}

	p, err := s.store.GetPot(ctx, potID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextGet, err)
	}
	if p == nil {
		return nil, domain.ErrPotNotFound
	}
	s.cache.Set(p)
	return p, nil
}

func (s *service) ListPots(ctx context.Context, limit int) ([]domain.Pot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	pots, err := s.store.ListPots(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextList, err)
	}
	return pots, nil
}

// UpdatePot applies the non-nil fields of patch. Only the creator may call it.
func (s *service) UpdatePot(ctx context.Context, potID, caller string, patch domain.PotPatch) (*domain.Pot, error) {
	p, err := s.GetPot(ctx, potID)
	if err != nil {
		return nil, err
	}
	if !p.IsCreator(caller) {
		return nil, domain.ErrNotPotCreator
	}

	if patch.Name != nil {
		name, err := normalizeText(*patch.Name, MaxNameLength, "name")
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		p.Name = name
	}
	if patch.Description != nil {
		description, err := normalizeText(*patch.Description, MaxDescriptionLength, "description")
		if err != nil {
			return nil, err
		}
		p.Description = description
	}
	if patch.EntryAmount != nil {
		if patch.EntryAmount.IsNegative() {
			return nil, fmt.Errorf("%w: entry amount must not be negative", domain.ErrInvalidInput)
		}
		p.EntryAmount = *patch.EntryAmount
	}
	p.UpdatedAt = s.cal.Now().UTC()

	if err := s.store.UpdatePot(ctx, p); err != nil {
		s.cache.Invalidate(p.ID)
		return nil, fmt.Errorf("%s: %w", ErrContextUpdate, err)
	}

	s.cache.Set(p)
	logger.FromContext(ctx).Info(LogMsgPotUpdated, "pot_id", p.ID)
	s.publish(ctx, event.PotUpdated, p.ID, p.Creator, p.Name)
	return p, nil
}

// TeardownPot removes the pot and every child record in one transaction
func (s *service) TeardownPot(ctx context.Context, potID, caller string) (*TeardownResult, error) {
	p, err := s.GetPot(ctx, potID)
	if err != nil {
		return nil, err
	}
	if !p.IsCreator(caller) {
		return nil, domain.ErrNotPotCreator
	}

	res := &TeardownResult{PotID: p.ID}
	err = s.store.WithTx(ctx, repository.ReadCommitted, func(q repository.Queries) error {
		var err error
		if res.LedgerEvents, err = q.ClearLedger(ctx, p.ID); err != nil {
			return err
		}
		if res.Predictions, err = q.DeletePredictions(ctx, p.ID); err != nil {
			return err
		}
		if res.Penalties, err = q.DeletePenalties(ctx, p.ID); err != nil {
			return err
		}
		if res.OutcomeVotes, err = q.DeleteOutcomeVotes(ctx, p.ID); err != nil {
			return err
		}
		if res.Settlements, err = q.DeleteSettlements(ctx, p.ID); err != nil {
			return err
		}
		return q.DeletePot(ctx, p.ID)
	})
	s.cache.Invalidate(p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextTeardown, err)
	}

	logger.FromContext(ctx).Info(LogMsgPotTornDown,
		"pot_id", p.ID,
		"ledger_events", res.LedgerEvents,
		"predictions", res.Predictions,
		"penalties", res.Penalties)
	s.publish(ctx, event.PotTornDown, p.ID, p.Creator, p.Name)
	return res, nil
}

func (s *service) publish(ctx context.Context, t event.Type, potID, actor, name string) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewPotEvent(t, potID, actor, name))
	}
}

// normalizeText trims and NFC-normalizes free text so visually identical
// names compare equal
func normalizeText(s string, maxLen int, field string) (string, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	if utf8.RuneCountInString(s) > maxLen {
		return "", fmt.Errorf("%w: %s exceeds %d characters", domain.ErrInvalidInput, field, maxLen)
	}
	return s, nil
}
