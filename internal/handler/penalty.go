package handler

import (
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/penalty"
)

// PenaltyHandlers handles missed-prediction penalty HTTP requests
type PenaltyHandlers struct {
	service penalty.Service
}

// NewPenaltyHandlers creates a new penalty handlers instance
func NewPenaltyHandlers(service penalty.Service) *PenaltyHandlers {
	return &PenaltyHandlers{service: service}
}

// PenaltyCheckRequest is the body of POST /pots/{potID}/penalties/check
type PenaltyCheckRequest struct {
	Participant string `json:"participant" validate:"required,participant"`
}

// PenaltyCheckResponse reports what the check decided
type PenaltyCheckResponse struct {
	PotID       string                    `json:"pot_id"`
	Participant string                    `json:"participant"`
	Result      domain.PenaltyCheckResult `json:"result"`
	Penalized   bool                      `json:"penalized"`
}

// PenaltyStatusResponse is the re-entry guard answer
type PenaltyStatusResponse struct {
	PotID       string `json:"pot_id"`
	Participant string `json:"participant"`
	Penalized   bool   `json:"penalized"`
	CanReEnter  bool   `json:"can_reenter"`
}

// HandleCheckPenalty runs the missed-prediction check for today
// @Summary Check missed-prediction penalty
// @Description Penalizes an active member who has not predicted today. Safe to call repeatedly.
// @Tags penalties
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body PenaltyCheckRequest true "Participant"
// @Success 200 {object} PenaltyCheckResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/pots/{potID}/penalties/check [post]
func (h *PenaltyHandlers) HandleCheckPenalty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PenaltyCheckRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Check penalty"); err != nil {
			return
		}
		potID := potIDParam(r)

		result, err := h.service.CheckMissedPredictionPenalty(r.Context(), potID, req.Participant)
		if err != nil {
			respondServiceError(w, r, "Check penalty", err)
			return
		}
		respondJSON(w, http.StatusOK, PenaltyCheckResponse{
			PotID:       potID,
			Participant: domain.NormalizeParticipant(req.Participant),
			Result:      result,
			Penalized:   result == domain.PenaltyResultPenalized || result == domain.PenaltyResultAlreadyPenalized,
		})
	}
}

// HandleGetPenaltyStatus reports whether the participant is penalized and may re-enter
// @Summary Penalty status
// @Tags penalties
// @Produce json
// @Param potID path string true "Pot ID"
// @Param participant path string true "Participant account"
// @Success 200 {object} PenaltyStatusResponse
// @Router /api/v1/pots/{potID}/penalties/{participant} [get]
func (h *PenaltyHandlers) HandleGetPenaltyStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		potID := potIDParam(r)
		participant := domain.NormalizeParticipant(participantParam(r))

		penalized, err := h.service.IsPenalized(r.Context(), potID, participant)
		if err != nil {
			respondServiceError(w, r, "Get penalty status", err)
			return
		}
		respondJSON(w, http.StatusOK, PenaltyStatusResponse{
			PotID:       potID,
			Participant: participant,
			Penalized:   penalized,
			CanReEnter:  !penalized,
		})
	}
}

// HandleListPenalties lists every penalty of the pot
// @Summary List penalties
// @Tags penalties
// @Produce json
// @Param potID path string true "Pot ID"
// @Success 200 {array} domain.PenaltyRecord
// @Router /api/v1/pots/{potID}/penalties [get]
func (h *PenaltyHandlers) HandleListPenalties() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := h.service.ListPenalties(r.Context(), potIDParam(r))
		if err != nil {
			respondServiceError(w, r, "List penalties", err)
			return
		}
		respondJSON(w, http.StatusOK, records)
	}
}

// HandleSweepPot runs the penalty check for every member of one pot
// @Summary Sweep pot penalties
// @Tags penalties
// @Produce json
// @Param potID path string true "Pot ID"
// @Success 200 {object} penalty.SweepResult
// @Router /api/v1/pots/{potID}/penalties/sweep [post]
func (h *PenaltyHandlers) HandleSweepPot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.service.SweepPot(r.Context(), potIDParam(r))
		if err != nil {
			respondServiceError(w, r, "Sweep pot", err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}
