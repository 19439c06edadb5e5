package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egoavara/steward/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
		err  bool
	}{
		{name: "", want: slog.LevelInfo},
		{name: "debug", want: slog.LevelDebug},
		{name: "INFO", want: slog.LevelInfo},
		{name: "warning", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "loud", want: slog.LevelInfo, err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			assert.Equal(t, tt.want, got)
			if tt.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetup_WritesJSONToFile(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.File = filepath.Join(t.TempDir(), "logs", "steward.log")

	logger, closer, err := Setup(cfg, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("plugin registry built", "plugins", 5)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"plugin registry built"`)
	assert.Contains(t, string(data), `"plugins":5`)
	assert.NotContains(t, string(data), "hidden")
}

func TestSetup_Verbose(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.File = filepath.Join(t.TempDir(), "steward.log")

	logger, closer, err := Setup(cfg, true)
	require.NoError(t, err)
	defer closer.Close()

	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetup_BadLevel(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.Level = "loud"

	_, _, err := Setup(cfg, false)
	assert.Error(t, err)
}
