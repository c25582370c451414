package bootstrap

import (
	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/concurrency"
	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/eligibility"
	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/eventlog"
	"github.com/osse101/PotSettle_Go/internal/ledger"
	"github.com/osse101/PotSettle_Go/internal/outcome"
	"github.com/osse101/PotSettle_Go/internal/penalty"
	"github.com/osse101/PotSettle_Go/internal/pot"
	"github.com/osse101/PotSettle_Go/internal/prediction"
	"github.com/osse101/PotSettle_Go/internal/server"
	"github.com/osse101/PotSettle_Go/internal/settlement"
	"github.com/osse101/PotSettle_Go/internal/sse"
)

// Services holds every domain service, ready to hand to the HTTP server and
// the background workers
type Services struct {
	Pots        pot.Service
	Ledger      ledger.Service
	Eligibility *eligibility.Resolver
	Predictions prediction.Service
	Penalties   penalty.Service
	Outcomes    outcome.Service
	Settlements settlement.Service
	EventLog    eventlog.Service
}

// InitializeServices wires the domain services over one store and one
// publisher. escrow may be nil.
func InitializeServices(cfg *config.Config, cal *calendar.Calendar, storage *Storage, publisher *event.ResilientPublisher, escrow settlement.Escrow) *Services {
	return &Services{
		Pots:        pot.NewService(storage.Store, cal, cfg.PotCacheSize, cfg.PotCacheTTL, publisher),
		Ledger:      ledger.NewService(storage.Store, cal, publisher),
		Eligibility: eligibility.NewResolver(storage.Store),
		Predictions: prediction.NewService(storage.Store, cal, publisher),
		Penalties:   penalty.NewService(storage.Store, cal, concurrency.NewLockManager(), publisher),
		Outcomes:    outcome.NewService(storage.Store, cal, publisher),
		Settlements: settlement.NewService(storage.Store, cal, escrow, publisher),
		EventLog:    eventlog.NewService(storage.EventLog),
	}
}

// HTTP returns the subset the server routes need. sweeper and stream may be nil.
func (s *Services) HTTP(sweeper *Workers, stream *sse.Hub) server.Services {
	svc := server.Services{
		Pots:        s.Pots,
		Ledger:      s.Ledger,
		Eligibility: s.Eligibility,
		Predictions: s.Predictions,
		Penalties:   s.Penalties,
		Outcomes:    s.Outcomes,
		Settlements: s.Settlements,
		EventLog:    s.EventLog,
		Stream:      stream,
	}
	if sweeper != nil && sweeper.Sweep != nil {
		svc.Sweeper = sweeper.Sweep
	}
	return svc
}

// NewCalendar builds the pot calendar from the configured timezone and
// reset weekday
func NewCalendar(cfg *config.Config) (*calendar.Calendar, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	resetDay, err := cfg.ResetDay()
	if err != nil {
		return nil, err
	}
	return calendar.New(loc, resetDay, nil), nil
}
