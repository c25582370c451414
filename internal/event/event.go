package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata carries optional request context alongside an event
type Metadata interface{}

// Event is the envelope published on a Bus
type Event struct {
	Version  string      `json:"version"`
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// Pot event types
const (
	PotCreated          Type = domain.EventTypePotCreated
	PotUpdated          Type = domain.EventTypePotUpdated
	PotTornDown         Type = domain.EventTypePotTornDown
	ParticipationLogged Type = domain.EventTypeParticipationLogged
	LedgerCleared       Type = domain.EventTypeLedgerCleared
	PredictionSubmitted Type = domain.EventTypePredictionSubmitted
	PenaltyApplied      Type = domain.EventTypePenaltyApplied
	OutcomeVoteCast     Type = domain.EventTypeOutcomeVoteCast
	SettlementComputed  Type = domain.EventTypeSettlementComputed
	SettlementSent      Type = domain.EventTypeSettlementSent
	SweepCompleted      Type = domain.EventTypeSweepCompleted
)

// AllTypes lists every pot event type, used to subscribe audit sinks
var AllTypes = []Type{
	PotCreated, PotUpdated, PotTornDown,
	ParticipationLogged, LedgerCleared,
	PredictionSubmitted, PenaltyApplied, OutcomeVoteCast,
	SettlementComputed, SettlementSent, SweepCompleted,
}

// PotPayloadV1 is the typed payload for pot lifecycle events
type PotPayloadV1 struct {
	PotID     string `json:"pot_id"`
	Actor     string `json:"actor"`
	Name      string `json:"name,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ParticipationPayloadV1 is the typed payload for ledger events
type ParticipationPayloadV1 struct {
	PotID       string `json:"pot_id"`
	Participant string `json:"participant"`
	EventType   string `json:"event_type"`
	EventDate   string `json:"event_date"`
	Seq         int64  `json:"seq"`
}

// LedgerClearedPayloadV1 is the typed payload for ledger clear events
type LedgerClearedPayloadV1 struct {
	PotID   string `json:"pot_id"`
	Removed int64  `json:"removed"`
}

// PredictionPayloadV1 is the typed payload for prediction submissions
type PredictionPayloadV1 struct {
	PotID       string `json:"pot_id"`
	Participant string `json:"participant"`
	Date        string `json:"date"`
	Direction   string `json:"direction"`
}

// PenaltyPayloadV1 is the typed payload for applied penalties
type PenaltyPayloadV1 struct {
	PotID       string `json:"pot_id"`
	Participant string `json:"participant"`
	Date        string `json:"date"`
}

// OutcomeVotePayloadV1 is the typed payload for outcome votes
type OutcomeVotePayloadV1 struct {
	PotID       string `json:"pot_id"`
	Participant string `json:"participant"`
	Vote        string `json:"vote"`
}

// SettlementPayloadV1 is the typed payload for settlement events
type SettlementPayloadV1 struct {
	PotID   string   `json:"pot_id"`
	Date    string   `json:"date"`
	Outcome string   `json:"outcome"`
	Winners []string `json:"winners"`
}

// SweepCompletedPayloadV1 is the typed payload for penalty sweep completion
type SweepCompletedPayloadV1 struct {
	Date      string    `json:"date"`
	Pots      int       `json:"pots"`
	Checked   int       `json:"checked"`
	Penalized int       `json:"penalized"`
	Failed    int       `json:"failed"`
	RanAt     time.Time `json:"ran_at"`
}

// New creates a versioned event
func New(t Type, payload interface{}) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: payload,
	}
}

// NewPotEvent creates a pot lifecycle event
func NewPotEvent(t Type, potID, actor, name string) Event {
	return New(t, PotPayloadV1{
		PotID:     potID,
		Actor:     actor,
		Name:      name,
		Timestamp: time.Now().Unix(),
	})
}

// NewParticipationEvent creates a ledger event
func NewParticipationEvent(evt domain.ParticipationEvent) Event {
	return New(ParticipationLogged, ParticipationPayloadV1{
		PotID:       evt.PotID,
		Participant: evt.Participant,
		EventType:   string(evt.Type),
		EventDate:   evt.EventDate.Format(dateLayout),
		Seq:         evt.Seq,
	})
}

// NewPredictionEvent creates a prediction submitted event
func NewPredictionEvent(p domain.Prediction) Event {
	return New(PredictionSubmitted, PredictionPayloadV1{
		PotID:       p.PotID,
		Participant: p.Participant,
		Date:        p.PredictionDate.Format(dateLayout),
		Direction:   string(p.Direction),
	})
}

// NewPenaltyEvent creates a penalty applied event
func NewPenaltyEvent(rec domain.PenaltyRecord) Event {
	return New(PenaltyApplied, PenaltyPayloadV1{
		PotID:       rec.PotID,
		Participant: rec.Participant,
		Date:        rec.PenalizedOn.Format(dateLayout),
	})
}

// NewOutcomeVoteEvent creates an outcome vote event
func NewOutcomeVoteEvent(v domain.OutcomeVote) Event {
	return New(OutcomeVoteCast, OutcomeVotePayloadV1{
		PotID:       v.PotID,
		Participant: v.Participant,
		Vote:        string(v.Vote),
	})
}

// NewSettlementEvent creates a settlement computed or distributed event
func NewSettlementEvent(t Type, s domain.Settlement) Event {
	return New(t, SettlementPayloadV1{
		PotID:   s.PotID,
		Date:    s.SettlementDate.Format(dateLayout),
		Outcome: string(s.Outcome),
		Winners: s.Winners,
	})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler(s) failed for %s: %w", len(errs), event.Type, errors.Join(errs...))
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
