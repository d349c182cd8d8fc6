package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuclearfleet/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

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

	_, err = os.Stat(logFile)
	require.NoError(t, err, "log file should be created")

	logger.Info("aggregation complete", "years", 69)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
	assert.Equal(t, "aggregation complete", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(69), entry["years"])
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "console"})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRunIDHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "loaded workbook")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["run_id"])

	buf.Reset()
	logger.InfoContext(context.Background(), "no run")
	assert.NotContains(t, buf.String(), "run_id")
}

func TestRunIDHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRunIDHandler(slog.NewJSONHandler(&buf, nil))).
		With("component", "aggregator").
		WithGroup("stats")

	logger.InfoContext(WithRunID(context.Background(), "abc"), "done", "count", 3)

	out := buf.String()
	assert.Contains(t, out, `"component":"aggregator"`)
	assert.Contains(t, out, `"stats":{`)
	assert.Contains(t, out, "abc")
}

func TestLoggerFromContext_BindsRunIDOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var buf bytes.Buffer
	globalLogger = slog.New(NewRunIDHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRunID(context.Background(), "run-9")
	logger := LoggerFromContext(ctx)

	logger.Info("without context")
	logger.InfoContext(ctx, "with context")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"run_id":"run-9"`), line)
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.level))
		})
	}
}

func TestNewHandler_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "text", nil)).Info("hello", "year", 1970)

	assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	assert.True(t, strings.Contains(buf.String(), "year=1970"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = EnsureRunID(ctx)
	id := GetRunID(ctx)
	assert.Len(t, id, 36)

	// existing IDs are preserved
	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)))
	assert.NotEqual(t, NewRunID(), NewRunID())
}

func TestLoggerFromContext(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	assert.NotNil(t, LoggerFromContext(context.Background()))
	assert.NotNil(t, LoggerFromContext(WithRunID(context.Background(), "x")))
}
