package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
)

// EligibilityReader answers membership questions for a civil date
type EligibilityReader interface {
	IsActiveOn(ctx context.Context, potID, participant string, date time.Time) (bool, error)
	EligibleParticipants(ctx context.Context, potID string, date time.Time) ([]string, error)
}

// EligibilityHandlers handles eligibility HTTP requests
type EligibilityHandlers struct {
	resolver EligibilityReader
	cal      *calendar.Calendar
}

// NewEligibilityHandlers creates a new eligibility handlers instance
func NewEligibilityHandlers(resolver EligibilityReader, cal *calendar.Calendar) *EligibilityHandlers {
	return &EligibilityHandlers{resolver: resolver, cal: cal}
}

// EligibilityResponse reports one participant's membership on a date
type EligibilityResponse struct {
	PotID       string `json:"pot_id"`
	Participant string `json:"participant"`
	Date        string `json:"date"`
	Active      bool   `json:"active"`
}

// EligibleParticipantsResponse lists every active member on a date
type EligibleParticipantsResponse struct {
	PotID        string   `json:"pot_id"`
	Date         string   `json:"date"`
	Count        int      `json:"count"`
	Participants []string `json:"participants"`
}

// HandleIsActiveOn reports whether a participant is a member on the date
// @Summary Participant eligibility
// @Tags eligibility
// @Produce json
// @Param potID path string true "Pot ID"
// @Param participant path string true "Participant account"
// @Param date query string false "Civil date YYYY-MM-DD, default today"
// @Success 200 {object} EligibilityResponse
// @Router /api/v1/pots/{potID}/eligibility/{participant} [get]
func (h *EligibilityHandlers) HandleIsActiveOn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := getDateQuery(r, w, h.cal)
		if !ok {
			return
		}
		potID := potIDParam(r)
		participant := domain.NormalizeParticipant(participantParam(r))

		active, err := h.resolver.IsActiveOn(r.Context(), potID, participant, date)
		if err != nil {
			respondServiceError(w, r, "Check eligibility", err)
			return
		}
		respondJSON(w, http.StatusOK, EligibilityResponse{
			PotID:       potID,
			Participant: participant,
			Date:        calendar.FormatDate(date),
			Active:      active,
		})
	}
}

// HandleEligibleParticipants lists the active members on the date
// @Summary Eligible participants
// @Tags eligibility
// @Produce json
// @Param potID path string true "Pot ID"
// @Param date query string false "Civil date YYYY-MM-DD, default today"
// @Success 200 {object} EligibleParticipantsResponse
// @Router /api/v1/pots/{potID}/eligibility [get]
func (h *EligibilityHandlers) HandleEligibleParticipants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, ok := getDateQuery(r, w, h.cal)
		if !ok {
			return
		}
		potID := potIDParam(r)

		members, err := h.resolver.EligibleParticipants(r.Context(), potID, date)
		if err != nil {
			respondServiceError(w, r, "List eligible participants", err)
			return
		}
		respondJSON(w, http.StatusOK, EligibleParticipantsResponse{
			PotID:        potID,
			Date:         calendar.FormatDate(date),
			Count:        len(members),
			Participants: members,
		})
	}
}
