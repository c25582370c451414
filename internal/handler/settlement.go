package handler

import (
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/settlement"
)

// SettlementHandlers handles winner computation and distribution HTTP requests
type SettlementHandlers struct {
	service settlement.Service
	cal     *calendar.Calendar
}

// NewSettlementHandlers creates a new settlement handlers instance
func NewSettlementHandlers(service settlement.Service, cal *calendar.Calendar) *SettlementHandlers {
	return &SettlementHandlers{service: service, cal: cal}
}

// HandleComputeWinners takes (or reuses) the winner snapshot for the date
// @Summary Compute winners
// @Description Returns 409 with the current tally while no majority exists
// @Tags settlement
// @Produce json
// @Param potID path string true "Pot ID"
// @Param date query string false "Prediction date YYYY-MM-DD, default today"
// @Success 200 {object} domain.Settlement
// @Failure 409 {object} OutcomeNotDecidedResponse
// @Router /api/v1/pots/{potID}/settlement/winners [post]
func (h *SettlementHandlers) HandleComputeWinners() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := getDateQuery(r, w, h.cal)
		if !ok {
			return
		}
		snap, err := h.service.Settle(r.Context(), potIDParam(r), date)
		if err != nil {
			respondServiceError(w, r, "Compute winners", err)
			return
		}
		respondJSON(w, http.StatusOK, snap)
	}
}

// HandleGetSettlement returns an existing snapshot without taking one
// @Summary Get settlement
// @Tags settlement
// @Produce json
// @Param potID path string true "Pot ID"
// @Param date query string false "Prediction date YYYY-MM-DD, default today"
// @Success 200 {object} domain.Settlement
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pots/{potID}/settlement [get]
func (h *SettlementHandlers) HandleGetSettlement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := getDateQuery(r, w, h.cal)
		if !ok {
			return
		}
		snap, err := h.service.GetSettlement(r.Context(), potIDParam(r), date)
		if err != nil {
			respondServiceError(w, r, "Get settlement", err)
			return
		}
		if snap == nil {
			respondError(w, http.StatusNotFound, MsgNoSettlementYet)
			return
		}
		respondJSON(w, http.StatusOK, snap)
	}
}

// HandleDistribute hands the snapshot's winners to escrow
// @Summary Distribute pot
// @Tags settlement
// @Produce json
// @Param potID path string true "Pot ID"
// @Param date query string false "Prediction date YYYY-MM-DD, default today"
// @Success 200 {object} domain.Settlement
// @Failure 409 {object} OutcomeNotDecidedResponse
// @Router /api/v1/pots/{potID}/settlement/distribute [post]
func (h *SettlementHandlers) HandleDistribute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := getDateQuery(r, w, h.cal)
		if !ok {
			return
		}
		snap, err := h.service.Distribute(r.Context(), potIDParam(r), date)
		if err != nil {
			respondServiceError(w, r, "Distribute", err)
			return
		}
		respondJSON(w, http.StatusOK, snap)
	}
}
