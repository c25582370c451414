package handler

import (
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/outcome"
)

// OutcomeHandlers handles outcome consensus HTTP requests
type OutcomeHandlers struct {
	service outcome.Service
}

// NewOutcomeHandlers creates a new outcome handlers instance
func NewOutcomeHandlers(service outcome.Service) *OutcomeHandlers {
	return &OutcomeHandlers{service: service}
}

// OutcomeVoteRequest is the body of PUT /pots/{potID}/outcome/votes
type OutcomeVoteRequest struct {
	Participant string `json:"participant" validate:"required,participant"`
	Vote        string `json:"vote" validate:"required,direction"`
}

// HandleCastVote records or overwrites an active member's outcome vote
// @Summary Cast outcome vote
// @Tags outcome
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body OutcomeVoteRequest true "Vote"
// @Success 200 {object} domain.OutcomeVote
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/pots/{potID}/outcome/votes [put]
func (h *OutcomeHandlers) HandleCastVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OutcomeVoteRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Cast outcome vote"); err != nil {
			return
		}
		vote, err := domain.ParseDirection(req.Vote)
		if err != nil {
			respondServiceError(w, r, "Cast outcome vote", err)
			return
		}

		v, err := h.service.CastOutcomeVote(r.Context(), potIDParam(r), req.Participant, vote)
		if err != nil {
			respondServiceError(w, r, "Cast outcome vote", err)
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// HandleGetStatus returns the current tally against today's membership
// @Summary Outcome status
// @Tags outcome
// @Produce json
// @Param potID path string true "Pot ID"
// @Success 200 {object} domain.OutcomeStatus
// @Router /api/v1/pots/{potID}/outcome [get]
func (h *OutcomeHandlers) HandleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.service.GetOutcomeStatus(r.Context(), potIDParam(r))
		if err != nil {
			respondServiceError(w, r, "Get outcome status", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}
