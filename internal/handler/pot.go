package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/pot"
)

// PotHandlers handles pot registry HTTP requests
type PotHandlers struct {
	service pot.Service
}

// NewPotHandlers creates a new pot handlers instance
func NewPotHandlers(service pot.Service) *PotHandlers {
	return &PotHandlers{service: service}
}

// CreatePotRequest is the body of POST /pots
type CreatePotRequest struct {
	PotID       string          `json:"pot_id" validate:"omitempty,max=128,excludesall=/ "`
	Creator     string          `json:"creator" validate:"required,participant"`
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=2000"`
	EntryAmount decimal.Decimal `json:"entry_amount"`
}

// UpdatePotRequest is the body of PATCH /pots/{potID}. Omitted fields are unchanged.
type UpdatePotRequest struct {
	Caller      string           `json:"caller" validate:"required,participant"`
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=2000"`
	EntryAmount *decimal.Decimal `json:"entry_amount,omitempty"`
}

// HandleCreatePot registers a new pot
// @Summary Create pot
// @Tags pots
// @Accept json
// @Produce json
// @Param request body CreatePotRequest true "Pot details"
// @Success 201 {object} domain.Pot
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/pots [post]
func (h *PotHandlers) HandleCreatePot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePotRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Create pot"); err != nil {
			return
		}

		p, err := h.service.CreatePot(r.Context(), pot.CreateRequest{
			ID:          req.PotID,
			Creator:     req.Creator,
			Name:        req.Name,
			Description: req.Description,
			EntryAmount: req.EntryAmount,
		})
		if err != nil {
			respondServiceError(w, r, "Create pot", err)
			return
		}

		respondJSON(w, http.StatusCreated, p)
	}
}

// HandleGetPot returns one pot
// @Summary Get pot
// @Tags pots
// @Produce json
// @Param potID path string true "Pot ID"
// @Success 200 {object} domain.Pot
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pots/{potID} [get]
func (h *PotHandlers) HandleGetPot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.service.GetPot(r.Context(), potIDParam(r))
		if err != nil {
			respondServiceError(w, r, "Get pot", err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// HandleListPots lists pots, newest first
// @Summary List pots
// @Tags pots
// @Produce json
// @Param limit query int false "Maximum pots to return"
// @Success 200 {array} domain.Pot
// @Router /api/v1/pots [get]
func (h *PotHandlers) HandleListPots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := getLimitParam(r, w, pot.DefaultListLimit)
		if !ok {
			return
		}
		pots, err := h.service.ListPots(r.Context(), limit)
		if err != nil {
			respondServiceError(w, r, "List pots", err)
			return
		}
		respondJSON(w, http.StatusOK, pots)
	}
}

// HandleUpdatePot changes a pot's mutable fields. Creator only.
// @Summary Update pot
// @Tags pots
// @Accept json
// @Produce json
// @Param potID path string true "Pot ID"
// @Param request body UpdatePotRequest true "Fields to change"
// @Success 200 {object} domain.Pot
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pots/{potID} [patch]
func (h *PotHandlers) HandleUpdatePot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePotRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Update pot"); err != nil {
			return
		}

		p, err := h.service.UpdatePot(r.Context(), potIDParam(r), req.Caller, domain.PotPatch{
			Name:        req.Name,
			Description: req.Description,
			EntryAmount: req.EntryAmount,
		})
		if err != nil {
			respondServiceError(w, r, "Update pot", err)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

// HandleTeardownPot deletes a pot and all of its records. Creator only.
// @Summary Tear down pot
// @Tags pots
// @Produce json
// @Param potID path string true "Pot ID"
// @Param caller query string true "Caller account"
// @Success 200 {object} DataResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/pots/{potID} [delete]
func (h *PotHandlers) HandleTeardownPot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := GetQueryParam(r, w, "caller")
		if !ok {
			return
		}

		res, err := h.service.TeardownPot(r.Context(), potIDParam(r), caller)
		if err != nil {
			respondServiceError(w, r, "Tear down pot", err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Message: MsgPotTornDown, Data: res})
	}
}
