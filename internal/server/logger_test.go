package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"conspect-web/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "info", Format: "json"})

	logger.Debug("hidden")
	logger.Info("upload accepted", "filename", "lecture.mp3")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "upload accepted", record["msg"])
	assert.Equal(t, "lecture.mp3", record["filename"])
}

func TestNewLogger_DebugAddsStackToErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LogConfig{Level: "debug", Format: "text"})

	logger.Debug("probe")
	assert.NotContains(t, buf.String(), "stack=")

	logger.Error("backend down")
	assert.Contains(t, buf.String(), "stack=")
}

func TestMultiHandler_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&first, nil),
		slog.NewTextHandler(&second, &slog.HandlerOptions{Level: slog.LevelError}),
	))

	logger.With("upload_id", "abc").Info("forwarding audio")

	assert.Contains(t, first.String(), "upload_id=abc")
	assert.Empty(t, second.String())
}
