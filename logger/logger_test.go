package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONEntry(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	// Act
	log.Named("router").Infow("navigated", "path", "/messenger/7")

	// Assert
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "router", entry["logger"])
	assert.Equal(t, "navigated", entry["message"])
	assert.Equal(t, "/messenger/7", entry["path"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", "json", &buf)

	log.Debugw("hidden")

	assert.Equal(t, "info", log.Level())
	assert.Zero(t, buf.Len())
}

func TestSetLevel_AppliesToDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "console", &buf)
	child := log.Named("socket").With("chat", 7)

	require.NoError(t, log.SetLevel("debug"))
	child.Debugw("ping")

	assert.Contains(t, buf.String(), "ping")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	log := Nop()
	assert.Same(t, log, OrNop(log))
}
