package handler

import (
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/prediction"
)

// PredictionHandlers handles prediction-related HTTP requests
type PredictionHandlers struct {
	service prediction.Service
	cal     *calendar.Calendar
}

// NewPredictionHandlers creates a new prediction handlers instance
func NewPredictionHandlers(service prediction.Service, cal *calendar.Calendar) *PredictionHandlers {
	return &PredictionHandlers{service: service, cal: cal}
}

// SubmitPredictionRequest is the body of PUT /pots/{potID}/predictions
type SubmitPredictionRequest struct {
	Participant string `json:"participant" validate:"required,participant"`
	Direction   string `json:"direction" validate:"required,direction"`
	Date        string `json:"date,omitempty" validate:"omitempty,civildate"`
}

// HandleSubmitPrediction records or overwrites a participant's call for the date
// @Summary Submit prediction
// @Description Idempotent per participant and date; resubmitting overwrites the direction
// @Tags predictions
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body SubmitPredictionRequest true "Prediction"
// @Success 200 {object} domain.Prediction
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/pots/{potID}/predictions [put]
func (h *PredictionHandlers) HandleSubmitPrediction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitPredictionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Submit prediction"); err != nil {
			return
		}
		direction, err := domain.ParseDirection(req.Direction)
		if err != nil {
			respondServiceError(w, r, "Submit prediction", err)
			return
		}
		date, err := resolveDate(h.cal, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidDateParam)
			return
		}

		p, err := h.service.SubmitPrediction(r.Context(), potIDParam(r), req.Participant, date, direction)
		if err != nil {
			respondServiceError(w, r, "Submit prediction", err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// HandleGetPredictions returns one participant's prediction when the
// participant query parameter is set, else all predictions for the date
// @Summary Get predictions
// @Tags predictions
// @Produce json
// @Param potID path string true "Pot ID"
// @Param date query string false "Civil date YYYY-MM-DD, default today"
// @Param participant query string false "Participant account"
// @Success 200 {array} domain.Prediction
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pots/{potID}/predictions [get]
func (h *PredictionHandlers) HandleGetPredictions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := getDateQuery(r, w, h.cal)
		if !ok {
			return
		}
		potID := potIDParam(r)

		if participant := r.URL.Query().Get("participant"); participant != "" {
			p, err := h.service.GetPrediction(r.Context(), potID, participant, date)
			if err != nil {
				respondServiceError(w, r, "Get prediction", err)
				return
			}
			if p == nil {
				respondError(w, http.StatusNotFound, "No prediction for that date")
				return
			}
			respondJSON(w, http.StatusOK, p)
			return
		}

		predictions, err := h.service.GetAllPredictions(r.Context(), potID, date)
		if err != nil {
			respondServiceError(w, r, "Get predictions", err)
			return
		}
		respondJSON(w, http.StatusOK, predictions)
	}
}
