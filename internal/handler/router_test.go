package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/concurrency"
	"github.com/osse101/PotSettle_Go/internal/database/memory"
	"github.com/osse101/PotSettle_Go/internal/eligibility"
	"github.com/osse101/PotSettle_Go/internal/ledger"
	"github.com/osse101/PotSettle_Go/internal/outcome"
	"github.com/osse101/PotSettle_Go/internal/penalty"
	"github.com/osse101/PotSettle_Go/internal/pot"
	"github.com/osse101/PotSettle_Go/internal/prediction"
	"github.com/osse101/PotSettle_Go/internal/settlement"
)

// testNow is a Monday, so penalty checks are not skipped for the reset day
var testNow = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type testAPI struct {
	router http.Handler
	store  *memory.Store
}

// newTestAPI wires every handler onto a chi router backed by the in-memory store
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	cal := calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time { return testNow }))

	pots := NewPotHandlers(pot.NewService(store, cal, 16, time.Minute, nil))
	ledgers := NewLedgerHandlers(ledger.NewService(store, cal, nil), cal)
	elig := NewEligibilityHandlers(eligibility.NewResolver(store), cal)
	preds := NewPredictionHandlers(prediction.NewService(store, cal, nil), cal)
	pens := NewPenaltyHandlers(penalty.NewService(store, cal, concurrency.NewLockManager(), nil))
	outs := NewOutcomeHandlers(outcome.NewService(store, cal, nil))
	sets := NewSettlementHandlers(settlement.NewService(store, cal, nil, nil), cal)

	r := chi.NewRouter()
	r.Route("/api/v1/pots", func(r chi.Router) {
		r.Post("/", pots.HandleCreatePot())
		r.Get("/", pots.HandleListPots())
		r.Route("/{potID}", func(r chi.Router) {
			r.Get("/", pots.HandleGetPot())
			r.Patch("/", pots.HandleUpdatePot())
			r.Delete("/", pots.HandleTeardownPot())

			r.Post("/ledger/entry", ledgers.HandleRecordEntry())
			r.Post("/ledger/reentry", ledgers.HandleRecordReEntry())
			r.Post("/ledger/exit", ledgers.HandleRecordExit())
			r.Get("/ledger/{participant}", ledgers.HandleHistory())
			r.Delete("/ledger", ledgers.HandleClearHistory())

			r.Get("/eligibility", elig.HandleEligibleParticipants())
			r.Get("/eligibility/{participant}", elig.HandleIsActiveOn())

			r.Put("/predictions", preds.HandleSubmitPrediction())
			r.Get("/predictions", preds.HandleGetPredictions())

			r.Post("/penalties/check", pens.HandleCheckPenalty())
			r.Get("/penalties/{participant}", pens.HandleGetPenaltyStatus())

			r.Put("/outcome/votes", outs.HandleCastVote())
			r.Get("/outcome", outs.HandleGetStatus())

			r.Post("/settlement/winners", sets.HandleComputeWinners())
			r.Get("/settlement", sets.HandleGetSettlement())
			r.Post("/settlement/distribute", sets.HandleDistribute())
		})
	})

	return &testAPI{router: r, store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
