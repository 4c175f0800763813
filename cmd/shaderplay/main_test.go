package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogHandler(t *testing.T) {
	tests := []struct {
		format string
		tty    bool
		json   bool
	}{
		{"auto", true, false},
		{"auto", false, true},
		{"text", false, false},
		{"json", true, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		h, err := newLogHandler(&buf, tt.format, slog.LevelInfo, tt.tty)
		require.NoError(t, err)
		slog.New(h).Info("hello", "k", 1)

		var v map[string]any
		isJSON := json.Unmarshal(buf.Bytes(), &v) == nil
		assert.Equal(t, tt.json, isJSON, "format %s tty %v", tt.format, tt.tty)
	}
}

func TestNewLogHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	h, err := newLogHandler(&buf, "text", slog.LevelInfo, false)
	require.NoError(t, err)
	slog.New(h).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLogHandlerUnknown(t *testing.T) {
	_, err := newLogHandler(&bytes.Buffer{}, "xml", slog.LevelInfo, false)
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}
