package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

func TestPotHandlers_Lifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/pots", map[string]interface{}{
		"pot_id":       "0xabc",
		"creator":      "Owner",
		"name":         "BTC weekly",
		"entry_amount": "0.25",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[domain.Pot](t, w)
	assert.Equal(t, "owner", created.Creator)
	assert.Equal(t, "0.25", created.EntryAmount.String())

	w = api.do(t, http.MethodPost, "/api/v1/pots", CreatePotRequest{PotID: "0xabc", Creator: "x", Name: "dup"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/pots/0xabc", nil)
	require.Equal(t, http.StatusOK, w.Code)

	name := "Renamed"
	w = api.do(t, http.MethodPatch, "/api/v1/pots/0xabc", UpdatePotRequest{Caller: "intruder", Name: &name})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPatch, "/api/v1/pots/0xabc", UpdatePotRequest{Caller: "owner", Name: &name})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", decodeBody[domain.Pot](t, w).Name)

	w = api.do(t, http.MethodGet, "/api/v1/pots?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, "/api/v1/pots/0xabc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "caller is required")

	w = api.do(t, http.MethodDelete, "/api/v1/pots/0xabc?caller=owner", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/pots/0xabc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPotHandlers_Validation(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/pots", CreatePotRequest{Creator: "has space", Name: "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[ValidationErrorResponse](t, w)
	assert.Contains(t, resp.Fields, "creator")

	w = api.do(t, http.MethodPost, "/api/v1/pots", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictionHandlers_Validation(t *testing.T) {
	api := newTestAPI(t)
	base := "/api/v1/pots/p"

	w := api.do(t, http.MethodPut, base+"/predictions", SubmitPredictionRequest{Participant: "a", Direction: "sideways"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[ValidationErrorResponse](t, w).Fields, "direction")

	w = api.do(t, http.MethodPut, base+"/predictions", SubmitPredictionRequest{Participant: "a", Direction: "positive", Date: "03/04/2024"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody[ValidationErrorResponse](t, w).Fields, "date")

	// Overwrite keeps a single row
	for _, dir := range []string{"positive", "negative"} {
		w = api.do(t, http.MethodPut, base+"/predictions", SubmitPredictionRequest{Participant: "a", Direction: dir})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = api.do(t, http.MethodGet, base+"/predictions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	preds := decodeBody[[]domain.Prediction](t, w)
	require.Len(t, preds, 1)
	assert.Equal(t, domain.DirectionNegative, preds[0].Direction)

	w = api.do(t, http.MethodGet, base+"/predictions?participant=nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
