package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(level slog.Level) (Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return New(handler), &buf
}

func TestLoggerLevels(t *testing.T) {
	l, buf := captureLogger(slog.LevelInfo)

	l.Debug("should be dropped")
	assert.Zero(t, buf.Len())

	l.Info("selected", Int64("index", 3))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "selected", entry["msg"])
	assert.Equal(t, float64(3), entry["index"])
}

func TestLoggerWith(t *testing.T) {
	l, buf := captureLogger(slog.LevelDebug)

	l.With(String("table", "sales")).Warn("stale row counts")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sales", entry["table"])
	assert.Equal(t, "stale row counts", entry["msg"])
}

func TestDefaultLogger(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	l, buf := captureLogger(slog.LevelDebug)
	SetDefault(l)
	Debug("via package helper", Bool("ok", true))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "via package helper", entry["msg"])
	assert.Equal(t, true, entry["ok"])
}
