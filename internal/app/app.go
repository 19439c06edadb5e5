// Package app wires the plugin registry, dispatcher and executor to the
// host capabilities and the persisted configuration.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/egoavara/steward/internal/config"
	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/plugin"
	"github.com/egoavara/steward/internal/plugins"
	"github.com/egoavara/steward/internal/search"
	"github.com/egoavara/steward/internal/storage"
)

// Options configures New. Zero fields fall back to the system defaults.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Store     storage.Store
	Browser   host.Browser
	Clipboard host.Clipboard
	Factories []plugin.Factory

	// Save persists configuration changes; nil means config.Save
	Save func(*config.Config) error

	// Global builds the process-wide registry instead of a private one
	Global bool
}

// App is a ready-to-use launcher core
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Host       *host.Context
	Notices    *host.QueueNotifier
	Registry   *plugin.Registry
	Tracker    *plugin.Tracker
	Dispatcher *plugin.Dispatcher
	Executor   *plugin.Executor

	mu   sync.Mutex // guards Config writes
	save func(*config.Config) error
}

// New builds the registry once and layers the persisted plugin settings on it
func New(opts Options) *App {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Store == nil {
		opts.Store = storage.NewFileStore(config.StoragePath())
	}
	if opts.Browser == nil {
		opts.Browser = host.SystemBrowser{}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = host.SystemClipboard{}
	}
	if opts.Factories == nil {
		opts.Factories = plugins.Factories()
	}
	if opts.Save == nil {
		opts.Save = config.Save
	}

	a := &App{
		Config:  opts.Config,
		Logger:  opts.Logger,
		Notices: host.NewQueueNotifier(opts.Logger),
		Tracker: plugin.NewTracker(),
		save:    opts.Save,
	}

	a.Host = &host.Context{
		Match:     search.MatchText,
		Browser:   opts.Browser,
		Clipboard: opts.Clipboard,
		Store:     opts.Store,
		Notifier:  a.Notices,
		Logger:    opts.Logger,
		Input:     a.Tracker.Query,
		Plugins:   control{app: a},
	}

	if opts.Global {
		a.Registry = plugin.Initialize(a.Host, opts.Factories, opts.Config.Plugins)
	} else {
		a.Registry = plugin.NewRegistry(a.Host, opts.Factories, opts.Config.Plugins)
		a.Registry.Build()
	}
	a.Registry.Apply(opts.Config.Plugins)

	a.Dispatcher = plugin.NewDispatcher(a.Registry, a.Tracker)
	a.Executor = plugin.NewExecutor(a.Registry, a.Tracker)
	return a
}

// SetEnabled toggles a plugin and persists the choice
func (a *App) SetEnabled(name string, enabled bool) error {
	if err := a.Registry.SetDisabled(name, !enabled); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Config.SetPluginDisabled(name, !enabled)
	return a.save(a.Config)
}

// Rekey rebinds a command key and persists it under the command's orkey
func (a *App) Rekey(name, orkey, key string) error {
	if err := a.Registry.Rekey(name, orkey, key); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.Config.SetPluginKey(name, orkey, key)
	return a.save(a.Config)
}

// control exposes the registry to plugins that manage other plugins
type control struct {
	app *App
}

func (c control) List() []host.PluginState {
	if c.app.Registry == nil {
		return nil
	}

	infos := c.app.Registry.Snapshot()
	states := make([]host.PluginState, 0, len(infos))
	for _, info := range infos {
		state := host.PluginState{
			ID:          info.ID,
			Name:        info.Name,
			Title:       info.Title,
			Icon:        info.Icon,
			Category:    info.Category,
			CanDisabled: info.CanDisabled,
			Disabled:    info.Disabled,
		}
		for _, cmd := range info.Commands {
			state.Commands = append(state.Commands, host.CommandState{
				Key:      cmd.Key,
				Orkey:    cmd.Orkey,
				Keyword:  cmd.Type == plugin.TypeKeyword,
				Title:    cmd.Title,
				Subtitle: cmd.Subtitle,
				Icon:     cmd.Icon,
			})
		}
		states = append(states, state)
	}
	return states
}

func (c control) SetEnabled(ctx context.Context, name string, enabled bool) error {
	return c.app.SetEnabled(name, enabled)
}
