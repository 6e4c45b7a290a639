package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_AppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jobsift.log")

	for i := 0; i < 2; i++ {
		logger, err := New(path, false)
		require.NoError(t, err)
		logger.Info("run finished", zap.Int("run", i))
		logger.Debug("hidden without verbose")
		logger.Sync()
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2, "second logger appends instead of truncating")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "run finished", entry["msg"])
	assert.Equal(t, float64(1), entry["run"])
}

func TestNew_Verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	logger, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("visible")
	logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNew_StderrOnly(t *testing.T) {
	logger, err := New("", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
