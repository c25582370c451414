package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestInitLogger_JSONCarriesBaseAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(NewConfig(LogLevelInfo, LogFormatJSON, "pot-settle", "1.2.0", EnvironmentTest, false), &buf)

	Info("settled", AttrKeyPotID, "weekly", "winners", 3)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "pot-settle", entry[AttrKeyService])
	assert.Equal(t, "1.2.0", entry[AttrKeyVersion])
	assert.Equal(t, EnvironmentTest, entry[AttrKeyEnvironment])
	assert.Equal(t, "settled", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "weekly", entry[AttrKeyPotID])
	assert.Equal(t, float64(3), entry["winners"])
}

func TestConfig_LogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{LogLevelDebug, slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{LogLevelWarning, slog.LevelWarn},
		{LogLevelError, slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{Level: tt.level}.LogLevel())
		})
	}
}

func TestCLIConfig(t *testing.T) {
	quiet := CLIConfig("potctl", false)
	assert.Equal(t, slog.LevelWarn, quiet.LogLevel())
	assert.False(t, quiet.IsJSON())
	assert.Equal(t, EnvironmentCLI, quiet.Environment)

	assert.Equal(t, slog.LevelDebug, CLIConfig("potctl", true).LogLevel())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(NewConfig(LogLevelWarn, LogFormatText, "svc", "", EnvironmentTest, false), &buf)

	Info("hidden")
	assert.Zero(t, buf.Len())

	Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), AttrKeyVersion+"=", "empty version is omitted")
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(NewConfig(LogLevelInfo, LogFormatJSON, "svc", "v", EnvironmentTest, false), &buf)

	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	FromContext(ctx).Info("traced")
	assert.Equal(t, "abc", decodeLine(t, &buf)[AttrKeyRequestID])
}

func TestWith_Accumulates(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter(NewConfig(LogLevelInfo, LogFormatJSON, "svc", "v", EnvironmentTest, false), &buf)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = With(ctx, AttrKeyClientIP, "10.0.0.7")
	ctx = With(ctx, AttrKeyPotID, "weekly")

	FromContext(ctx).Warn("penalized")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-1", entry[AttrKeyRequestID])
	assert.Equal(t, "10.0.0.7", entry[AttrKeyClientIP])
	assert.Equal(t, "weekly", entry[AttrKeyPotID])
}
