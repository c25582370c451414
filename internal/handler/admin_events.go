package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/eventlog"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

const defaultEventsLimit = 50

// AdminEventsHandler serves the audit log
type AdminEventsHandler struct {
	events eventlog.Service
}

// NewAdminEventsHandler creates a new admin events handler
func NewAdminEventsHandler(events eventlog.Service) *AdminEventsHandler {
	return &AdminEventsHandler{events: events}
}

// EventsResponse contains event log query results
type EventsResponse struct {
	Events []EventLogEntry `json:"events"`
}

// EventLogEntry is one audit record
type EventLogEntry struct {
	ID          int64       `json:"id"`
	EventType   string      `json:"event_type"`
	PotID       *string     `json:"pot_id,omitempty"`
	Participant *string     `json:"participant,omitempty"`
	Payload     interface{} `json:"payload"`
	Metadata    interface{} `json:"metadata,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

// HandleGetEvents queries the audit log, newest first
// @Summary Query the event log
// @Tags admin
// @Produce json
// @Param pot_id query string false "Pot ID"
// @Param participant query string false "Participant"
// @Param event_type query string false "Event type"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param limit query int false "Maximum entries (1-1000)"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/events [get]
func (h *AdminEventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EventLogFilter{
		PotID:       optionalString(q.Get("pot_id")),
		Participant: optionalString(q.Get("participant")),
		EventType:   optionalString(q.Get("event_type")),
	}

	if filter.EventType != nil && !slices.Contains(event.AllTypes, event.Type(*filter.EventType)) {
		respondError(w, http.StatusBadRequest, ErrMsgUnknownEventType)
		return
	}

	var ok bool
	if filter.Since, ok = timeParam(w, q.Get("since"), ErrMsgInvalidSince); !ok {
		return
	}
	if filter.Until, ok = timeParam(w, q.Get("until"), ErrMsgInvalidUntil); !ok {
		return
	}
	if filter.Limit, ok = getLimitParam(r, w, defaultEventsLimit); !ok {
		return
	}
	if filter.Limit > eventlog.MaxQueryLimit {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return
	}

	found, err := h.events.Query(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "Get events", err)
		return
	}

	entries := make([]EventLogEntry, 0, len(found))
	for _, e := range found {
		entries = append(entries, EventLogEntry{
			ID:          e.ID,
			EventType:   e.EventType,
			PotID:       e.PotID,
			Participant: e.Participant,
			Payload:     e.Payload,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, EventsResponse{Events: entries})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// timeParam parses an optional RFC3339 value. If ok is false the 400 response
// is already written.
func timeParam(w http.ResponseWriter, raw, errMsg string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, errMsg)
		return nil, false
	}
	return &t, true
}
