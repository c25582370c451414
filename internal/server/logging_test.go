package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/PotSettle_Go/internal/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitLoggerWithWriter(logger.NewConfig(logger.LogLevelDebug, logger.LogFormatText, "test", "", logger.EnvironmentTest, false), &buf)
	return &buf
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	buf := captureLogs(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pots", nil)
	req.Header.Set(HeaderAPIKey, "secret-key-123")
	req.Header.Set(HeaderAuthorization, "Bearer mytoken")
	req.Header.Set("User-Agent", "PotAgent")
	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, LogMsgRequestHeaders)
	assert.NotContains(t, out, "secret-key-123")
	assert.NotContains(t, out, "mytoken")
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "PotAgent")
	assert.Equal(t, "secret-key-123", req.Header.Get(HeaderAPIKey), "request headers are untouched")
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	captureLogs(t)

	var inner string
	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = logger.GetRequestID(r.Context())
	}))

	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{"generated", "", false},
		{"reused", "trace-42", true},
		{"too long", strings.Repeat("a", MaxRequestIDLength+1), false},
		{"control chars", "bad\nid", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/pots", nil)
			if tt.incoming != "" {
				req.Header.Set(HeaderRequestID, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			assert.NotEmpty(t, got)
			assert.Equal(t, got, inner)
			if tt.reuse {
				assert.Equal(t, tt.incoming, got)
			} else {
				assert.NotEqual(t, tt.incoming, got)
			}
		})
	}
}

func TestLoggingMiddleware_QuietPathsSkipRequestLogs(t *testing.T) {
	buf := captureLogs(t)

	loggingMiddleware(okHandler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotContains(t, buf.String(), LogMsgRequestStarted)
}
