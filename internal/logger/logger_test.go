package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withCapturedOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return buf
}

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_SilentByDefault(t *testing.T) {
	buf := withCapturedOutput(t)

	Debug("hidden %s", "message")

	assert.Empty(t, buf.String())
}

func TestDebug_Verbose(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(true)

	Debug("query: %q", "go docs")

	assert.Equal(t, "[DEBUG] query: \"go docs\"\n", buf.String())
}

func TestInfoAndWarn_Verbose(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(true)

	Info("found %d results", 3)
	Warn("embedding failed: %v", "offline")

	assert.Contains(t, buf.String(), "[INFO] found 3 results\n")
	assert.Contains(t, buf.String(), "[WARN] embedding failed: offline\n")
}

func TestSection_Verbose(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(true)

	Section("Search Execution")

	assert.Equal(t, "\n=== Search Execution ===\n", buf.String())
}
