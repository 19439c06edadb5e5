package plugin

import (
	"context"
	"regexp"

	"github.com/egoavara/steward/internal/host"
)

// Type governs how a command is matched against the raw query
type Type string

const (
	// TypeKeyword requires the first query token to equal the command key
	TypeKeyword Type = "keyword"
	// TypeRegexp requires the full query to match the command pattern
	TypeRegexp Type = "regexp"
	// TypeOther is the default/global fallback class
	TypeOther Type = "other"
)

// Command is one invocable trigger surface owned by a plugin
type Command struct {
	Key      string // live trigger token, may be remapped
	Orkey    string // original key, assigned once at registration
	Type     Type
	Title    string
	Subtitle string
	Icon     string
	Editable bool // whether Key may be rebound
	ShiftKey bool // Shift+Enter selects a secondary behavior

	// Pattern is consulted only for TypeRegexp commands
	Pattern *regexp.Regexp
}

// ResultItem is one renderable row produced by a plugin
type ResultItem struct {
	Key    string `json:"key"` // echoes the owning command's live key
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Desc   string `json:"desc,omitempty"`
	Icon   string `json:"icon,omitempty"`
	IsWarn bool   `json:"isWarn,omitempty"`

	// Data carries plugin-defined payload back into OnEnter
	Data any `json:"-"`
}

// KeyStatus is the modifier state at selection time
type KeyStatus struct {
	ShiftKey bool
	CtrlKey  bool
	AltKey   bool
	MetaKey  bool
}

// Options is the per-plugin options block from configuration.
// A nil Options means no configuration exists for the plugin.
type Options map[string]any

// String returns the string option for key, or def when absent
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the bool option for key, or def when absent
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Handler is the lifecycle contract every plugin implements.
//
// OnInput may block (storage reads, network-like calls); the Dispatcher runs
// it off the caller's goroutine and may discard its result, so it must not
// have externally visible side effects. Side effects belong in OnEnter.
type Handler interface {
	OnInput(ctx context.Context, query string, cmd Command) ([]ResultItem, error)
	OnEnter(ctx context.Context, item ResultItem, cmd Command, query string, keys KeyStatus, list []ResultItem) (EnterResult, error)
}

// Matcher is implemented by handlers that decide themselves whether a
// non-keyword command accepts a query.
type Matcher interface {
	Accept(query string, cmd Command) bool
}

// Plugin is the descriptor returned by a Factory
type Plugin struct {
	Name     string
	Category string
	Icon     string
	Title    string
	Version  int

	Commands []*Command
	Handler  Handler

	// DataEditor is nil when the plugin has no structured data
	DataEditor DataEditor

	CanDisabled bool
	disabled    bool

	id string // factory name, the key of persisted settings
}

// ID returns the factory name the plugin was registered under
func (p *Plugin) ID() string {
	return p.id
}

// Factory builds a plugin from the host context and its options
type Factory struct {
	Name string
	New  func(h *host.Context, opts Options) *Plugin
}

// DefaultResult returns the single item echoing a command's own presentation
func DefaultResult(cmd Command) []ResultItem {
	return []ResultItem{{
		Key:   cmd.Key,
		Icon:  cmd.Icon,
		Title: cmd.Title,
		Desc:  cmd.Subtitle,
	}}
}
