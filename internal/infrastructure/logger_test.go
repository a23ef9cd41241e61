package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportsplit/internal/config"
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

	var console bytes.Buffer
	logger, err := InitializeLogger(cfg, &console)
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = os.Stat(logFile)
	require.NoError(t, err, "log file should be created with its directory")

	logger.Info("test message", "key", "value")

	// Close log file to allow reading on Windows
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Empty(t, console.String(), "file output does not touch the console")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")
}

func TestInitializeLoggerOnce(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var console, ignored bytes.Buffer
	first, err := InitializeLogger(DefaultConfig(), &console)
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug"}, &ignored)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())

	second.Info("to the first writer")
	assert.Contains(t, console.String(), "to the first writer")
	assert.Empty(t, ignored.String())
}

func TestRunIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "with run")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-123", entry["run_id"])

	buf.Reset()
	logger.InfoContext(context.Background(), "without run")

	entry = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "run_id")
}

func TestRunIDSurvivesWith(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(DefaultConfig(), &buf), "loader").WithGroup("file")

	logger.InfoContext(WithRunID(context.Background(), "abc"), "grouped", "name", "a.csv")

	out := buf.String()
	assert.Contains(t, out, `"component":"loader"`)
	assert.Contains(t, out, `"run_id":"abc"`)
}

func TestNewLoggerFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "json",
			format: "json",
			check: func(t *testing.T, out string) {
				assert.True(t, json.Valid([]byte(strings.TrimSpace(out))))
			},
		},
		{
			name:   "text",
			format: "TEXT",
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "msg=hello")
				assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: "info", Format: tt.format}, &buf)
			logger.Info("hello")
			tt.check(t, buf.String())
		})
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		logDebug bool
		logInfo  bool
		logWarn  bool
		logError bool
	}{
		{"debug", true, true, true, true},
		{"info", false, true, true, true},
		{"warn", false, false, true, true},
		{"warning", false, false, true, true},
		{"error", false, false, false, true},
		{"bogus", false, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)

			emitted := func(log func(string, ...any)) bool {
				buf.Reset()
				log("probe")
				return buf.Len() > 0
			}

			assert.Equal(t, tt.logDebug, emitted(logger.Debug), "debug")
			assert.Equal(t, tt.logInfo, emitted(logger.Info), "info")
			assert.Equal(t, tt.logWarn, emitted(logger.Warn), "warn")
			assert.Equal(t, tt.logError, emitted(logger.Error), "error")
		})
	}
}

func TestRunIDHelpers(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	assert.Empty(t, GetRunID(nil))
	assert.Empty(t, GetRunID(context.Background()))

	ctx := EnsureRunID(context.Background())
	id := GetRunID(ctx)
	assert.Len(t, id, 36)

	assert.Equal(t, id, GetRunID(EnsureRunID(ctx)), "existing run id is kept")
	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DefaultConfig(), &buf)

	assert.Same(t, logger, WithError(logger, nil))

	WithError(logger, errors.New("boom")).Info("failed")
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestCloseLogFileIdempotent(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	assert.NoError(t, CloseLogFile())
	assert.NoError(t, CloseLogFile())
}
