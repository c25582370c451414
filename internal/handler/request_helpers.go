package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/logger"
)

// URL parameter names
const (
	ParamPotID       = "potID"
	ParamParticipant = "participant"
)

// DecodeAndValidateRequest decodes the JSON body into req and runs its
// validate tags. On error the response is already written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, action string) error {
	log := logger.FromContext(r.Context()).With("action", action)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(req); err != nil {
		log.Warn("Request body rejected", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return err
	}
	if dec.More() {
		log.Warn("Request body has trailing data")
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return errTrailingData
	}

	if err := validateRequest(req); err != nil {
		log.Debug("Request failed validation", "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: validationFields(err),
		})
		return err
	}
	return nil
}

var errTrailingData = errors.New("trailing data after JSON body")

// ValidationErrorResponse lists failing fields by JSON name
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetQueryParam reads a required query parameter. If ok is false the 400
// response is already written.
func GetQueryParam(r *http.Request, w http.ResponseWriter, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, name))
		return "", false
	}
	return value, true
}

// getLimitParam parses an optional positive "limit" query parameter
func getLimitParam(r *http.Request, w http.ResponseWriter, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultValue, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	return limit, true
}

// resolveDate parses a YYYY-MM-DD string, or returns today in the pot
// calendar when it is empty
func resolveDate(cal *calendar.Calendar, raw string) (time.Time, error) {
	if raw == "" {
		return cal.Today(), nil
	}
	return calendar.ParseDate(raw)
}

// getDateQuery reads the optional "date" query parameter. If ok is false,
// the response has been written.
func getDateQuery(r *http.Request, w http.ResponseWriter, cal *calendar.Calendar) (time.Time, bool) {
	date, err := resolveDate(cal, r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidDateParam)
		return time.Time{}, false
	}
	return date, true
}

func potIDParam(r *http.Request) string {
	return chi.URLParam(r, ParamPotID)
}

func participantParam(r *http.Request) string {
	return chi.URLParam(r, ParamParticipant)
}
