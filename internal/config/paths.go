package config

import (
	"os"
	"path/filepath"
)

var (
	homeDir string
)

func init() {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		homeDir = "~"
	}
}

// StewardDir returns the steward config directory path
// ~/.config/steward/
// STEWARD_HOME overrides it.
func StewardDir() string {
	if dir := os.Getenv("STEWARD_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir, ".config", "steward")
}

// ConfigPath returns the config.json file path
// ~/.config/steward/config.json
func ConfigPath() string {
	return filepath.Join(StewardDir(), "config.json")
}

// StoragePath returns the plugin storage file path
// ~/.config/steward/storage.json
func StoragePath() string {
	return filepath.Join(StewardDir(), "storage.json")
}

// LogPath returns the default log file path
// ~/.config/steward/logs/steward.log
func LogPath() string {
	return filepath.Join(StewardDir(), "logs", "steward.log")
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
