// Package host defines the environment capabilities injected into every
// plugin factory. The dispatch core only passes the context through.
package host

import (
	"context"
	"log/slog"
	"path"

	"github.com/egoavara/steward/internal/storage"
)

// Context bundles the utilities a plugin may use
type Context struct {
	// Match is the fuzzy text predicate plugins use to filter their own data
	Match func(query, text string) bool

	Browser   Browser
	Clipboard Clipboard
	Store     storage.Store
	Notifier  Notifier
	Logger    *slog.Logger

	// Input returns the raw text currently in the input box
	Input func() string

	// Plugins is bound after the registry exists; nil until then
	Plugins PluginControl
}

// Browser opens URLs for the user
type Browser interface {
	Open(ctx context.Context, url string, background bool) error
}

// Clipboard writes text to the system clipboard
type Clipboard interface {
	Copy(text string) error
}

// Notifier shows non-fatal messages to the user
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// PluginState is one plugin as seen by plugins that manage other plugins
type PluginState struct {
	ID       string
	Name     string
	Title    string
	Icon     string
	Category string

	CanDisabled bool
	Disabled    bool
	Commands    []CommandState
}

// CommandState is the live key and presentation of one command
type CommandState struct {
	Key      string
	Orkey    string
	Keyword  bool
	Title    string
	Subtitle string
	Icon     string
}

// PluginControl lets plugins inspect and toggle the registered plugins
type PluginControl interface {
	List() []PluginState
	SetEnabled(ctx context.Context, name string, enabled bool) error
}

// NopNotifier drops every message
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Warning(string) {}
func (NopNotifier) Error(string)   {}

// IconBase is the prefix IconURL resolves against
var IconBase = "icons"

// IconURL resolves an icon path shipped with the launcher
func IconURL(p string) string {
	return path.Join(IconBase, p)
}

// CurrentInput returns the input box text, or "" when no accessor is bound
func (c *Context) CurrentInput() string {
	if c == nil || c.Input == nil {
		return ""
	}
	return c.Input()
}

// Matches applies the fuzzy predicate; an empty query matches everything
func (c *Context) Matches(query, text string) bool {
	if query == "" {
		return true
	}
	if c == nil || c.Match == nil {
		return true
	}
	return c.Match(query, text)
}
