package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelAndComponent(t *testing.T) {
	require.NoError(t, os.Unsetenv("APP_ENV"))
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	require.True(t, SetLevel("info"))
	defer SetLevel("warn")

	l := New("allocation")
	l.Debugf("hidden %d", 1)
	l.Infof("assigned %s", "김다비")
	l.Warnf("warn")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "allocation", rec["component"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "assigned 김다비", rec["message"])
}

func TestDebugwFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	require.True(t, SetLevel("debug"))
	defer SetLevel("warn")

	New("journal").Debugw("append", map[string]any{"action": "assign"})
	assert.Contains(t, buf.String(), `"action":"assign"`)
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	assert.False(t, SetLevel("loud"))
	assert.False(t, SetLevel(""))
}

func TestDevConsole(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	New("cmd").Errorf("boom")
	assert.Contains(t, buf.String(), "boom")
}
