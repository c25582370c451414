package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// OutcomeNotDecidedResponse is returned with 409 when settlement is attempted
// before a majority exists. It carries the tally so the client can show it.
type OutcomeNotDecidedResponse struct {
	Error  string               `json:"error"`
	Status domain.OutcomeStatus `json:"status"`
}

// Helper functions for responding

var encodeBuffers = sync.Pool{
	New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, 512)) },
}

// respondJSON encodes payload before touching the response so an encoding
// failure can still become a 500
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := encodeBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		encodeBuffers.Put(buf)
	}()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgEncodeFailed + `"}` + "\n"))
		return
	}

	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to a status and writes it.
// Server-side failures are logged at Error, client mistakes at Warn.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	log := logger.FromContext(r.Context())
	status, msg := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err, "status", status)
	} else {
		log.Warn(opName+" rejected", "error", err, "status", status)
	}

	var notDecided *domain.OutcomeNotDecidedError
	if errors.As(err, &notDecided) {
		respondJSON(w, status, OutcomeNotDecidedResponse{Error: msg, Status: notDecided.Status})
		return
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
// These messages are derived from domain errors and provide helpful guidance to users
const (
	// Generic messages
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."
	ErrMsgTimeoutError       = "The request timed out. Please try again."

	// Membership messages
	ErrMsgNotAMemberError       = "Participant is not an active member of this pot"
	ErrMsgAlreadyPenalizedError = "Participant is already penalized"
	ErrMsgEmptyParticipantError = "Participant is required"

	// Pot messages
	ErrMsgPotNotFoundError      = "Pot not found"
	ErrMsgPotAlreadyExistsError = "A pot with that ID already exists"
	ErrMsgNotPotCreatorError    = "Only the pot creator can do that"

	// Settlement messages
	ErrMsgOutcomeNotDecidedError = "The outcome has not been decided yet"
	ErrMsgNoWinnersError         = "Nobody predicted the decided outcome"

	// Sweep messages
	ErrMsgSweepInProgressError = "A penalty sweep is already running"

	// Input messages
	ErrMsgInvalidInputError     = "Invalid request. Please check your inputs."
	ErrMsgInvalidDirectionError = "Direction must be 'positive' or 'negative'"
	ErrMsgInvalidDateError      = "Invalid date, expected YYYY-MM-DD"
	ErrMsgInvalidEventTypeError = "Event type must be 'entry', 'reentry' or 'exit'"
)

// mapServiceErrorToUserMessage maps domain errors to user-friendly HTTP responses
// This function converts internal service errors to appropriate HTTP status codes and messages
// that users can understand and act upon.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrNotAMember):
		return http.StatusForbidden, ErrMsgNotAMemberError
	case errors.Is(err, domain.ErrAlreadyPenalized):
		return http.StatusConflict, ErrMsgAlreadyPenalizedError
	case errors.Is(err, domain.ErrEmptyParticipant):
		return http.StatusBadRequest, ErrMsgEmptyParticipantError
	case errors.Is(err, domain.ErrPotNotFound):
		return http.StatusNotFound, ErrMsgPotNotFoundError
	case errors.Is(err, domain.ErrPotAlreadyExists):
		return http.StatusConflict, ErrMsgPotAlreadyExistsError
	case errors.Is(err, domain.ErrNotPotCreator):
		return http.StatusForbidden, ErrMsgNotPotCreatorError
	case errors.Is(err, domain.ErrOutcomeNotDecided):
		return http.StatusConflict, ErrMsgOutcomeNotDecidedError
	case errors.Is(err, domain.ErrNoWinners):
		return http.StatusConflict, ErrMsgNoWinnersError
	case errors.Is(err, domain.ErrSweepInProgress):
		return http.StatusConflict, ErrMsgSweepInProgressError
	case errors.Is(err, domain.ErrInvalidDirection):
		return http.StatusBadRequest, ErrMsgInvalidDirectionError
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, ErrMsgInvalidDateError
	case errors.Is(err, domain.ErrInvalidEventType):
		return http.StatusBadRequest, ErrMsgInvalidEventTypeError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrMsgTimeoutError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
