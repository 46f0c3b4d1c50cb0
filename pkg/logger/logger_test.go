package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCarriesLevelModuleAndIP(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "Notify", DEBUG, "System")

	log.PrintfInfo("server listening on %s", ":5050")

	line := buf.String()
	assert.Contains(t, line, "[INFO]")
	assert.Contains(t, line, "[Notify]")
	assert.Contains(t, line, "[System]")
	assert.Contains(t, line, "server listening on :5050")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLevelsBelowThresholdAreSuppressed(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "Notify", WARNING, "System")

	log.PrintfDebug("debug")
	log.PrintfInfo("info")
	log.PrintfWarning("warning")
	log.PrintfError("error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[WARNING]")
	assert.Contains(t, lines[1], "[ERROR]")
}

func TestPrintfLogsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "Notify", DEBUG, "System")

	log.Printf("hello")

	assert.Contains(t, buf.String(), "[INFO]")
}

func TestUnknownLevelFallsBackToDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "Notify", LogLevel("VERBOSE"), "System")

	log.PrintfDebug("still visible")

	assert.Contains(t, buf.String(), "still visible")
}
