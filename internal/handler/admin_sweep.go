package handler

import (
	"context"
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/penalty"
)

// SweepTrigger runs the end-of-day penalty sweep on demand
type SweepTrigger interface {
	Trigger(ctx context.Context) (*penalty.SweepSummary, error)
	LastSummary() *penalty.SweepSummary
}

// AdminSweepHandler exposes manual sweep controls
type AdminSweepHandler struct {
	sweeper SweepTrigger
}

// NewAdminSweepHandler creates a new admin sweep handler
func NewAdminSweepHandler(sweeper SweepTrigger) *AdminSweepHandler {
	return &AdminSweepHandler{sweeper: sweeper}
}

// HandleTriggerSweep runs the penalty sweep across all pots now
// @Summary Trigger penalty sweep
// @Tags admin
// @Produce json
// @Success 200 {object} DataResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/admin/sweep [post]
func (h *AdminSweepHandler) HandleTriggerSweep(w http.ResponseWriter, r *http.Request) {
	summary, err := h.sweeper.Trigger(r.Context())
	if err != nil {
		respondServiceError(w, r, "Penalty sweep", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Message: MsgSweepCompleted, Data: summary})
}

// HandleLastSweep returns the most recent sweep summary
// @Summary Last penalty sweep
// @Tags admin
// @Produce json
// @Success 200 {object} DataResponse
// @Router /api/v1/admin/sweep/last [get]
func (h *AdminSweepHandler) HandleLastSweep(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: h.sweeper.LastSummary()})
}
