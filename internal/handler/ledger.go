package handler

import (
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/ledger"
)

// LedgerHandlers handles participation ledger HTTP requests
type LedgerHandlers struct {
	service ledger.Service
	cal     *calendar.Calendar
}

// NewLedgerHandlers creates a new ledger handlers instance
func NewLedgerHandlers(service ledger.Service, cal *calendar.Calendar) *LedgerHandlers {
	return &LedgerHandlers{service: service, cal: cal}
}

// LedgerEventRequest records one confirmed on-chain entry, re-entry or exit
type LedgerEventRequest struct {
	Participant string `json:"participant" validate:"required,participant"`
	Date        string `json:"date,omitempty" validate:"omitempty,civildate"`
}

// ClearHistoryResponse reports how many ledger events were removed
type ClearHistoryResponse struct {
	PotID   string `json:"pot_id"`
	Removed int64  `json:"removed"`
}

// HandleRecordEntry appends an Entry event
// @Summary Record entry
// @Tags ledger
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body LedgerEventRequest true "Participant and optional date"
// @Success 201 {object} domain.ParticipationEvent
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/pots/{potID}/ledger/entry [post]
func (h *LedgerHandlers) HandleRecordEntry() http.HandlerFunc {
	return h.record(domain.ParticipationEntry, "Record entry")
}

// HandleRecordReEntry appends a ReEntry event
// @Summary Record re-entry
// @Tags ledger
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body LedgerEventRequest true "Participant and optional date"
// @Success 201 {object} domain.ParticipationEvent
// @Router /api/v1/pots/{potID}/ledger/reentry [post]
func (h *LedgerHandlers) HandleRecordReEntry() http.HandlerFunc {
	return h.record(domain.ParticipationReEntry, "Record re-entry")
}

// HandleRecordExit appends an Exit event
// @Summary Record exit
// @Tags ledger
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body LedgerEventRequest true "Participant and optional date"
// @Success 201 {object} domain.ParticipationEvent
// @Router /api/v1/pots/{potID}/ledger/exit [post]
func (h *LedgerHandlers) HandleRecordExit() http.HandlerFunc {
	return h.record(domain.ParticipationExit, "Record exit")
}

func (h *LedgerHandlers) record(eventType domain.ParticipationEventType, opName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LedgerEventRequest
		if err := DecodeAndValidateRequest(r, w, &req, opName); err != nil {
			return
		}
		date, err := resolveDate(h.cal, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidDateParam)
			return
		}

		evt, err := h.service.Record(r.Context(), potIDParam(r), req.Participant, eventType, date)
		if err != nil {
			respondServiceError(w, r, opName, err)
			return
		}
		respondJSON(w, http.StatusCreated, evt)
	}
}

// HandleHistory lists a participant's events in ledger order
// @Summary Participant history
// @Tags ledger
// @Produce json
// @Param potID path string true "Pot ID"
// @Param participant path string true "Participant account"
// @Success 200 {array} domain.ParticipationEvent
// @Router /api/v1/pots/{potID}/ledger/{participant} [get]
func (h *LedgerHandlers) HandleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := h.service.History(r.Context(), potIDParam(r), participantParam(r))
		if err != nil {
			respondServiceError(w, r, "Get history", err)
			return
		}
		respondJSON(w, http.StatusOK, events)
	}
}

// HandleClearHistory deletes every ledger event of the pot
// @Summary Clear pot ledger
// @Tags ledger
// @Produce json
// @Param potID path string true "Pot ID"
// @Success 200 {object} ClearHistoryResponse
// @Router /api/v1/pots/{potID}/ledger [delete]
func (h *LedgerHandlers) HandleClearHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		potID := potIDParam(r)
		removed, err := h.service.ClearHistory(r.Context(), potID)
		if err != nil {
			respondServiceError(w, r, "Clear history", err)
			return
		}
		respondJSON(w, http.StatusOK, ClearHistoryResponse{PotID: potID, Removed: removed})
	}
}
