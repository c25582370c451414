package handler

import (
	"encoding/json"
	"net/http"

	"github.com/osse101/PotSettle_Go/internal/sse"
)

// AdminSSEBroadcastRequest represents an operator notice pushed to stream clients
type AdminSSEBroadcastRequest struct {
	Type    string          `json:"type" validate:"required,max=64"`
	PotID   string          `json:"pot_id" validate:"omitempty,max=64"`
	Payload json.RawMessage `json:"payload"`
}

// AdminSSEHandler handles stream-related admin tasks
type AdminSSEHandler struct {
	sseHub *sse.Hub
}

// NewAdminSSEHandler creates a new admin SSE handler
func NewAdminSSEHandler(sseHub *sse.Hub) *AdminSSEHandler {
	return &AdminSSEHandler{sseHub: sseHub}
}

// HandleStatus reports how many stream clients are connected
// @Summary Stream status
// @Tags admin
// @Produce json
// @Success 200 {object} DataResponse
// @Router /api/v1/admin/stream [get]
func (h *AdminSSEHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, DataResponse{Data: map[string]int{
		"client_count": h.sseHub.ClientCount(),
	}})
}

// HandleBroadcast pushes a manual event to stream clients, scoped to a pot when pot_id is set
// @Summary Broadcast stream event
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminSSEBroadcastRequest true "Event"
// @Success 200 {object} DataResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/stream/broadcast [post]
func (h *AdminSSEHandler) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req AdminSSEBroadcastRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Broadcast stream event"); err != nil {
		return
	}

	var payload interface{}
	if len(req.Payload) > 0 {
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidPayload)
			return
		}
	}

	h.sseHub.Broadcast(req.Type, req.PotID, payload)

	respondJSON(w, http.StatusOK, DataResponse{
		Message: MsgEventBroadcast,
		Data:    map[string]string{"type": req.Type, "pot_id": req.PotID},
	})
}
