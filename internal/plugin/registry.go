package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"

	"github.com/egoavara/steward/internal/config"
	"github.com/egoavara/steward/internal/host"
)

var (
	// ErrNotInitialized is returned by GetOrBuild before Initialize
	ErrNotInitialized = errors.New("plugin registry not initialized")
	// ErrUnknownPlugin is returned for a plugin name that was never registered
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrUnknownCommand is returned for an orkey the plugin does not declare
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotDisableable is returned when disabling a plugin without CanDisabled
	ErrNotDisableable = errors.New("plugin cannot be disabled")
	// ErrNotEditable is returned when rekeying a command without Editable
	ErrNotEditable = errors.New("command key is not editable")
	// ErrInvalidKey is returned for an empty key or one containing whitespace
	ErrInvalidKey = errors.New("invalid command key")
)

// Registry owns the plugin descriptors built from an ordered factory list
type Registry struct {
	mu        sync.RWMutex
	once      sync.Once
	host      *host.Context
	factories []Factory
	config    map[string]config.PluginConfig
	plugins   []*Plugin
}

// Info is a read-only copy of a plugin's state for settings screens
type Info struct {
	ID          string
	Name        string
	Category    string
	Title       string
	Icon        string
	Version     int
	CanDisabled bool
	Disabled    bool
	HasData     bool
	Commands    []Command
}

// NewRegistry creates a registry; factories run on the first Build
func NewRegistry(h *host.Context, factories []Factory, cfg map[string]config.PluginConfig) *Registry {
	return &Registry{
		host:      h,
		factories: factories,
		config:    cfg,
	}
}

func (r *Registry) logger() *slog.Logger {
	if r.host != nil && r.host.Logger != nil {
		return r.host.Logger
	}
	return slog.Default()
}

// Build runs every factory once and returns the plugins in factory order.
// Later calls return the cached list without invoking factories again.
func (r *Registry) Build() []*Plugin {
	r.once.Do(func() {
		seen := make(map[*Plugin]bool, len(r.factories))
		plugins := make([]*Plugin, 0, len(r.factories))

		for _, factory := range r.factories {
			var opts Options
			if pc, ok := r.config[factory.Name]; ok && pc.Options != nil {
				opts = Options(pc.Options)
			}

			p := factory.New(r.host, opts)
			if p == nil {
				r.logger().Warn("plugin factory returned nil", "plugin", factory.Name)
				continue
			}
			if seen[p] {
				r.logger().Warn("plugin factory returned a shared descriptor", "plugin", factory.Name)
				continue
			}
			seen[p] = true
			p.id = factory.Name

			for _, cmd := range p.Commands {
				if cmd.Orkey == "" {
					cmd.Orkey = cmd.Key
				}
			}
			if p.CanDisabled {
				p.disabled = false
			}

			plugins = append(plugins, p)
		}

		r.mu.Lock()
		r.plugins = plugins
		r.mu.Unlock()

		r.logger().Debug("plugin registry built", "plugins", len(plugins))
	})

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.plugins
}

// Plugins returns the built plugins in registration order
func (r *Registry) Plugins() []*Plugin {
	return r.Build()
}

// Lookup returns a plugin by its factory name
func (r *Registry) Lookup(name string) (*Plugin, bool) {
	for _, p := range r.Build() {
		if p.id == name {
			return p, true
		}
	}
	return nil, false
}

// Disabled reports whether p is currently disabled
func (r *Registry) Disabled(p *Plugin) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return p.disabled
}

// Snapshot copies every plugin's current state
func (r *Registry) Snapshot() []Info {
	plugins := r.Build()

	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(plugins))
	for _, p := range plugins {
		info := Info{
			ID:          p.id,
			Name:        p.Name,
			Category:    p.Category,
			Title:       p.Title,
			Icon:        p.Icon,
			Version:     p.Version,
			CanDisabled: p.CanDisabled,
			Disabled:    p.disabled,
			HasData:     p.DataEditor != nil,
			Commands:    make([]Command, 0, len(p.Commands)),
		}
		for _, cmd := range p.Commands {
			info.Commands = append(info.Commands, *cmd)
		}
		infos = append(infos, info)
	}
	return infos
}

// SetDisabled toggles a disableable plugin. Its orkey-scoped settings are kept.
func (r *Registry) SetDisabled(name string, disabled bool) error {
	p, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}
	if !p.CanDisabled {
		return fmt.Errorf("%w: %s", ErrNotDisableable, name)
	}

	r.mu.Lock()
	p.disabled = disabled
	r.mu.Unlock()

	r.logger().Info("plugin toggled", "plugin", name, "disabled", disabled)
	return nil
}

// Rekey rebinds the live key of an editable command; its orkey is untouched
func (r *Registry) Rekey(name, orkey, key string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	p, ok := r.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cmd := range p.Commands {
		if cmd.Orkey != orkey {
			continue
		}
		if !cmd.Editable {
			return fmt.Errorf("%w: %s/%s", ErrNotEditable, name, orkey)
		}
		cmd.Key = key
		return nil
	}
	return fmt.Errorf("%w: %s/%s", ErrUnknownCommand, name, orkey)
}

// Apply layers persisted disabled flags and key remaps over the plugins.
// Entries that no longer apply are logged and skipped.
func (r *Registry) Apply(settings map[string]config.PluginConfig) {
	for name, pc := range settings {
		p, ok := r.Lookup(name)
		if !ok {
			continue
		}
		if p.CanDisabled {
			if err := r.SetDisabled(name, pc.Disabled); err != nil {
				r.logger().Warn("failed to apply plugin state", "plugin", name, "error", err)
			}
		}
		for orkey, key := range pc.Keys {
			if err := r.Rekey(name, orkey, key); err != nil {
				r.logger().Warn("failed to apply key remap", "plugin", name, "orkey", orkey, "error", err)
			}
		}
	}
}

// entry is a locked-read copy of an enabled plugin's commands
type entry struct {
	plugin   *Plugin
	commands []Command
}

// enabled returns copies of the commands of every enabled plugin, in order
func (r *Registry) enabled() []entry {
	plugins := r.Build()

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]entry, 0, len(plugins))
	for _, p := range plugins {
		if p.disabled {
			continue
		}
		cmds := make([]Command, 0, len(p.Commands))
		for _, cmd := range p.Commands {
			cmds = append(cmds, *cmd)
		}
		entries = append(entries, entry{plugin: p, commands: cmds})
	}
	return entries
}

// owner finds the enabled plugin with a command whose live key is key
func (r *Registry) owner(key string) (*Plugin, Command, bool) {
	for _, e := range r.enabled() {
		for _, cmd := range e.commands {
			if cmd.Key == key {
				return e.plugin, cmd, true
			}
		}
	}
	return nil, Command{}, false
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	return !strings.ContainsFunc(key, unicode.IsSpace)
}

var (
	global     *Registry
	globalOnce sync.Once
	globalMu   sync.RWMutex
)

// Initialize creates and builds the process-wide registry.
// Only the first call has an effect; later calls return the same registry.
func Initialize(h *host.Context, factories []Factory, cfg map[string]config.PluginConfig) *Registry {
	globalOnce.Do(func() {
		r := NewRegistry(h, factories, cfg)
		r.Build()

		globalMu.Lock()
		global = r
		globalMu.Unlock()
	})
	return mustGlobal()
}

// GetOrBuild returns the process-wide registry created by Initialize
func GetOrBuild() (*Registry, error) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return nil, ErrNotInitialized
	}
	return global, nil
}

func mustGlobal() *Registry {
	r, err := GetOrBuild()
	if err != nil {
		panic(err)
	}
	return r
}
