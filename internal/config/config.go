package config

import (
	"encoding/json"
	"os"
	"sync"
)

// LogConfig contains log output settings
type LogConfig struct {
	Level      string `json:"level"`      // "debug", "info", "warn", "error" (default: info)
	File       string `json:"file"`       // log file path, empty means LogPath()
	MaxSize    int    `json:"maxSize"`    // megabytes before rotation
	MaxBackups int    `json:"maxBackups"` // rotated files to keep
	MaxAge     int    `json:"maxAge"`     // days to keep rotated files
	Compress   bool   `json:"compress"`   // gzip rotated files
}

// PluginConfig is the persisted configuration of one plugin
type PluginConfig struct {
	Options  map[string]any    `json:"options,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
	Keys     map[string]string `json:"keys,omitempty"` // orkey -> live key
}

// Config represents the main configuration file structure
type Config struct {
	Locale  string                  `json:"locale"` // "auto" or ISO format (e.g., "ko-KR", "en-US")
	Log     LogConfig               `json:"log"`
	Plugins map[string]PluginConfig `json:"plugins"`
}

var (
	cfg     *Config
	cfgOnce sync.Once
	cfgMu   sync.RWMutex
)

// DefaultLogConfig returns the default log settings
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Locale:  "auto", // default: auto-detect system locale
		Log:     DefaultLogConfig(),
		Plugins: make(map[string]PluginConfig),
	}
}

// Load loads the configuration from file
func Load() (*Config, error) {
	cfgMu.RLock()
	defer cfgMu.RUnlock()

	return LoadFile(ConfigPath())
}

// LoadFile loads a configuration from path, filling defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, err
	}

	config := NewConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	// Ensure maps are initialized
	if config.Plugins == nil {
		config.Plugins = make(map[string]PluginConfig)
	}

	// Set default locale if empty
	if config.Locale == "" {
		config.Locale = "auto"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}

	return config, nil
}

// Save saves the configuration to file
func Save(config *Config) error {
	cfgMu.Lock()
	defer cfgMu.Unlock()

	if err := EnsureDir(StewardDir()); err != nil {
		return err
	}

	return SaveFile(ConfigPath(), config)
}

// SaveFile writes config to path as indented JSON
func SaveFile(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Get returns the current configuration (singleton)
func Get() *Config {
	cfgOnce.Do(func() {
		var err error
		cfg, err = Load()
		if err != nil {
			cfg = NewConfig()
		}
	})
	return cfg
}

// Reload reloads the configuration from file
func Reload() error {
	newCfg, err := Load()
	if err != nil {
		return err
	}

	Get()
	cfgMu.Lock()
	cfg = newCfg
	cfgMu.Unlock()
	return nil
}

// GetLocale returns the configured locale
func GetLocale() string {
	return Get().Locale
}

// SetLocale sets the locale and saves
func SetLocale(locale string) error {
	config := Get()
	config.Locale = locale
	return Save(config)
}

// SetLogLevel sets the log level and saves
func SetLogLevel(level string) error {
	config := Get()
	config.Log.Level = level
	return Save(config)
}

// Plugin returns the stored configuration of a plugin (zero value if absent)
func (c *Config) Plugin(name string) PluginConfig {
	return c.Plugins[name]
}

// SetPluginDisabled records a plugin's disabled flag
func (c *Config) SetPluginDisabled(name string, disabled bool) {
	c.ensurePlugins()
	pc := c.Plugins[name]
	pc.Disabled = disabled
	c.Plugins[name] = pc
}

// SetPluginKey records a key remap for the command with the given orkey.
// Remapping back to the orkey drops the entry.
func (c *Config) SetPluginKey(name, orkey, key string) {
	c.ensurePlugins()
	pc := c.Plugins[name]
	if key == orkey {
		delete(pc.Keys, orkey)
	} else {
		if pc.Keys == nil {
			pc.Keys = make(map[string]string)
		}
		pc.Keys[orkey] = key
	}
	c.Plugins[name] = pc
}

func (c *Config) ensurePlugins() {
	if c.Plugins == nil {
		c.Plugins = make(map[string]PluginConfig)
	}
}
