package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAndValidateRequest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", `{"participant":"alice","direction":"positive"}` + "\n", 0},
		{"malformed", `{"participant":`, http.StatusBadRequest},
		{"trailing value", `{"participant":"alice","direction":"positive"} {}`, http.StatusBadRequest},
		{"fails validation", `{"participant":"alice","direction":"up"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var req voteLike
			err := DecodeAndValidateRequest(r, w, &req, "test")

			if tt.wantCode == 0 {
				assert.NoError(t, err)
				assert.Equal(t, "alice", req.Participant)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestGetQueryParam(t *testing.T) {
	w := httptest.NewRecorder()
	_, ok := GetQueryParam(httptest.NewRequest(http.MethodGet, "/", nil), w, "caller")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "caller")

	v, ok := GetQueryParam(httptest.NewRequest(http.MethodGet, "/?caller=bob", nil), httptest.NewRecorder(), "caller")
	assert.True(t, ok)
	assert.Equal(t, "bob", v)
}
