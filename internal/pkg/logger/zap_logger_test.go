package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.log")
	l := NewIsolatedLogger(path)

	l.Debug("Hub", "dropped below info", nil)
	l.Info("Hub", "client registered", map[string]interface{}{"session_id": "s1"})
	l.Error("Hub", "push failed", map[string]interface{}{"error": "closed"})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "client registered", entry["message"])
	assert.Equal(t, "Hub", entry["module"])
	assert.Equal(t, map[string]interface{}{"session_id": "s1"}, entry["details"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "closed", entry["error_ref"])
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	l.Warn("x", "y", nil)
	assert.NoError(t, l.Sync())
}
