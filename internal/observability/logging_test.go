package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotteryd/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	logger.With("module", "x/lottery").Info("lottery drawn", "value", 42)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "lottery drawn", entry["message"])
	assert.Equal(t, "x/lottery", entry["module"])
	assert.Equal(t, float64(42), entry["value"])
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, config.LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, config.LogConfig{Level: "info", Format: "xml"})
	require.Error(t, err)
}
