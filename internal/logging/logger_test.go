package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewBuildsNamedLoggers(t *testing.T) {
	t.Parallel()

	for _, dev := range []bool{true, false} {
		logger, err := New(dev)
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Equal(t, ServiceName, logger.Name())
	}
}

func TestConfigLevels(t *testing.T) {
	t.Parallel()

	assert.True(t, newConfig(true).Level.Enabled(zapcore.DebugLevel))
	assert.False(t, newConfig(false).Level.Enabled(zapcore.DebugLevel))
	assert.Equal(t, "console", newConfig(true).Encoding)
	assert.Equal(t, "json", newConfig(false).Encoding)
}

func TestProductionEntryShape(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "log.json")
	cfg := newConfig(false)
	cfg.OutputPaths = []string{path}
	logger, err := cfg.Build()
	require.NoError(t, err)

	logger.Named(ServiceName).Info("page scraped", zap.Int("page", 2), zap.Duration("elapsed", 1500*time.Millisecond))
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))

	assert.Contains(t, entry, "ts")
	assert.NotContains(t, entry, "time")
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, ServiceName, entry["logger"])
	assert.Equal(t, "page scraped", entry["msg"])
	assert.EqualValues(t, 2, entry["page"])
	assert.Equal(t, "1.5s", entry["elapsed"])
}
