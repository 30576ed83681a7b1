package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutputAndForService(t *testing.T) {
	var structured, humanReadable bytes.Buffer
	SetOutput(&structured, &humanReadable)

	logger := ForService("pipeline")
	require.NotNil(t, logger)
	logger.Info("run started", "zones", 3)

	assert.Contains(t, structured.String(), `"service":"pipeline"`)
	assert.Contains(t, structured.String(), `"msg":"run started"`)
	assert.Contains(t, structured.String(), `"zones":3`)
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "foodchain.log")

	logger, closeLogger, err := NewFileLogger(path, "foodchain", slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("file logging enabled", "path", path)
	require.NoError(t, closeLogger())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"service":"foodchain"`)
	assert.Contains(t, string(content), `"msg":"file logging enabled"`)
}

func TestNewFileLoggerDebugFiltered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")

	logger, closeLogger, err := NewFileLogger(path, "svc", slog.LevelInfo)
	require.NoError(t, err)

	logger.Debug("should be filtered")
	logger.Info("visible")
	require.NoError(t, closeLogger())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "should be filtered")
	assert.Contains(t, string(content), "visible")
}

func TestReplaceLevelNames(t *testing.T) {
	var structured, humanReadable bytes.Buffer
	SetOutput(&structured, &humanReadable)

	Trace("fine detail")
	assert.Contains(t, structured.String(), `"level":"TRACE"`)
}
