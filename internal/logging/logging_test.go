package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Logging:
// - ParseLevel accepts names case-insensitively and rejects unknown ones
// - Text format writes uncoloured lines to non-terminal writers
// - JSON format writes one JSON object per record
// - Level filtering drops records below the configured level
// - Unknown formats are rejected

func TestParseLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(&buf, Options{Format: "text", Level: "info"})
	require.NoError(t, err)

	logger.Info("processing", "file", "Room.h")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "processing")
	assert.Contains(t, out, "file=Room.h")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not be coloured")
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(&buf, Options{Format: "json", Level: "debug"})
	require.NoError(t, err)

	logger.Debug("extracted", "declarations", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "extracted", record["msg"])
	assert.Equal(t, float64(3), record["declarations"])
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := New(&bytes.Buffer{}, Options{Format: "xml", Level: "info"})
	assert.Error(t, err)
}
