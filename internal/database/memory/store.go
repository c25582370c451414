// Package memory is an in-process implementation of repository.Store used for
// single-node deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

type predictionKey struct {
	potID, participant, date string
}

type memberKey struct {
	potID, participant string
}

type settlementKey struct {
	potID, date string
}

// state holds every table. It is only touched with Store.mu held.
type state struct {
	pots        map[string]domain.Pot
	events      []domain.ParticipationEvent
	nextSeq     int64
	predictions map[predictionKey]domain.Prediction
	penalties   map[memberKey]domain.PenaltyRecord
	votes       map[memberKey]domain.OutcomeVote
	settlements map[settlementKey]domain.Settlement
}

func newState() *state {
	return &state{
		pots:        make(map[string]domain.Pot),
		predictions: make(map[predictionKey]domain.Prediction),
		penalties:   make(map[memberKey]domain.PenaltyRecord),
		votes:       make(map[memberKey]domain.OutcomeVote),
		settlements: make(map[settlementKey]domain.Settlement),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.pots {
		c.pots[k] = v
	}
	c.events = append([]domain.ParticipationEvent(nil), s.events...)
	c.nextSeq = s.nextSeq
	for k, v := range s.predictions {
		c.predictions[k] = v
	}
	for k, v := range s.penalties {
		c.penalties[k] = v
	}
	for k, v := range s.votes {
		c.votes[k] = v
	}
	for k, v := range s.settlements {
		v.Winners = append([]string(nil), v.Winners...)
		c.settlements[k] = v
	}
	return c
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// view runs queries against the state. The store's view takes the mutex on
// every call; a transaction's view runs while WithTx already holds it.
type view struct {
	st   *state
	lock sync.Locker
}

// Store is a mutex-guarded in-memory store
type Store struct {
	*view
	mu sync.Mutex
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.view = &view{st: newState(), lock: &s.mu}
	return s
}

// WithTx serializes fn against every other store call. When fn fails the
// state is restored to what it was before fn ran.
func (s *Store) WithTx(ctx context.Context, _ repository.Isolation, fn func(q repository.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(&view{st: s.st, lock: noopLocker{}}); err != nil {
		*s.st = *snapshot
		return err
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func dateKey(t time.Time) string {
	return calendar.FormatDate(t)
}
