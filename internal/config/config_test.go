package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Locale)
	assert.Equal(t, DefaultLogConfig(), cfg.Log)
	assert.NotNil(t, cfg.Plugins)
}

func TestLoadFile_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"locale":"","log":{"level":""},"plugins":null}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Locale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotNil(t, cfg.Plugins)
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Locale = "ko-KR"
	cfg.SetPluginDisabled("openurl", true)
	cfg.SetPluginKey("search", "se", "engine")
	cfg.Plugins["search"] = PluginConfig{
		Options: map[string]any{"preferred": "Bing"},
		Keys:    cfg.Plugins["search"].Keys,
	}
	require.NoError(t, SaveFile(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ko-KR", loaded.Locale)
	assert.True(t, loaded.Plugin("openurl").Disabled)
	assert.Equal(t, "engine", loaded.Plugin("search").Keys["se"])
	assert.Equal(t, "Bing", loaded.Plugin("search").Options["preferred"])
	assert.Equal(t, PluginConfig{}, loaded.Plugin("missing"))
}

func TestSetPluginKey(t *testing.T) {
	cfg := &Config{}

	cfg.SetPluginKey("search", "se", "engine")
	assert.Equal(t, map[string]string{"se": "engine"}, cfg.Plugins["search"].Keys)

	cfg.SetPluginKey("search", "se", "se")
	assert.Empty(t, cfg.Plugins["search"].Keys, "remapping to the orkey drops the entry")

	cfg.SetPluginDisabled("search", true)
	assert.True(t, cfg.Plugins["search"].Disabled)
}

func TestStewardDir_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STEWARD_HOME", dir)

	assert.Equal(t, dir, StewardDir())
	assert.Equal(t, filepath.Join(dir, "config.json"), ConfigPath())
	assert.Equal(t, filepath.Join(dir, "storage.json"), StoragePath())
}
