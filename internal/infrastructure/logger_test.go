package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamSkanse/Skye-Financials-Automation/internal/config"
)

func readLastLogLine(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "skye.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("report written", "sheets", 2)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := readLastLogLine(t, content)
	assert.Equal(t, "report written", entry["msg"])
	assert.Equal(t, float64(2), entry["sheets"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestInitializeLoggerOnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestInitializeLoggerBadFile(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	_, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "reconciled")

	entry := readLastLogLine(t, buf.Bytes())
	assert.Equal(t, "run-123", entry["trace_id"])
	assert.NotContains(t, entry, "span_id")

	buf.Reset()
	logger.Info("no context")
	assert.NotContains(t, readLastLogLine(t, buf.Bytes()), "trace_id")
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		warnShown  bool
	}{
		{level: "debug", debugShown: true, warnShown: true},
		{level: "info", warnShown: true},
		{level: "warning", warnShown: true},
		{level: "error"},
		{level: "bogus", warnShown: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: tt.level}, &buf)

			logger.Debug("debug line")
			logger.Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.debugShown, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.warnShown, strings.Contains(out, "warn line"))
		})
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.InfoContext(WithTraceID(context.Background(), "abc"), "hello")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "trace_id=abc")
}

func TestContextHelpers(t *testing.T) {
	ctx := NewRunContext(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 36)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)))
	assert.NotEmpty(t, GetTraceID(EnsureTraceID(context.Background())))
	assert.NotEqual(t, traceID, GetTraceID(NewRunContext(context.Background())))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info"}, &buf)

	WithComponent(logger, "reconciler").Info("matched")

	assert.Equal(t, "reconciler", readLastLogLine(t, buf.Bytes())["component"])
}
