package logutils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerConsoleLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger, err := newLogger(LogSettings{Enabled: true, Level: "WARN"}, buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("phase", "Test 1"))
	require.NoError(t, logger.Sync())

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), `"phase": "Test 1"`)
	require.Contains(t, buf.String(), "logutils/logger_test.go")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(LogSettings{Enabled: true, Level: "LOUD"}, bytes.NewBuffer(nil))
	require.Error(t, err)
}

func TestNewLoggerDisabled(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger, err := newLogger(LogSettings{Enabled: false, Level: "DEBUG"}, buf)
	require.NoError(t, err)
	logger.Error("dropped")
	require.Empty(t, buf.String())
}

func TestNewLoggerWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "harness.log")
	settings := DefaultLogSettings()
	settings.File = file

	logger, err := newLogger(settings, bytes.NewBuffer(nil))
	require.NoError(t, err)
	logger.Info("to file", zap.Int("calls", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	require.Equal(t, "to file", entry["msg"])
	require.Equal(t, float64(3), entry["calls"])
}
