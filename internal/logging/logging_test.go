package logging

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"ERROR":   LevelError,
		"warn":    LevelWarn,
		" Info ":  LevelInfo,
		"debug":   LevelDebug,
		"verbose": LevelInfo, // unknown names fall back to INFO
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelWarn)
	logger.SetOutput(log.New(&buf, "", 0))

	logger.Debug("hidden %d", 1)
	logger.Info("hidden too")
	logger.Warn("shown %s", "warning")
	logger.Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown warning")
	assert.Contains(t, out, "[ERROR] shown error")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("ignored")
		logger.Error("ignored")
	})
}
