package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Match is a resolved plugin+command pair and the query passed to OnInput
type Match struct {
	Plugin  *Plugin
	Command Command
	Query   string
}

// Results is the outcome of one dispatch
type Results struct {
	Ticket  Ticket
	Matched bool
	Match   Match
	Items   []ResultItem
}

// Dispatcher routes raw input to the plugin command that claims it
type Dispatcher struct {
	registry *Registry
	tracker  *Tracker
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher sharing tracker with the executor
func NewDispatcher(registry *Registry, tracker *Tracker) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		tracker:  tracker,
		logger:   registry.logger(),
	}
}

// Resolve picks the command for query.
//
// A keyword command whose key equals the first token wins over any fallback,
// whatever the registration order. Otherwise the first non-keyword command,
// in registration order, whose matcher accepts the full query is chosen.
func (d *Dispatcher) Resolve(query string) (Match, bool) {
	entries := d.registry.enabled()
	head, rest := splitHead(query)

	for _, e := range entries {
		for _, cmd := range e.commands {
			if cmd.Type == TypeKeyword && cmd.Key == head {
				return Match{Plugin: e.plugin, Command: cmd, Query: rest}, true
			}
		}
	}

	for _, e := range entries {
		for _, cmd := range e.commands {
			if cmd.Type == TypeKeyword {
				continue
			}
			if d.accepts(e.plugin, cmd, query) {
				return Match{Plugin: e.plugin, Command: cmd, Query: query}, true
			}
		}
	}

	return Match{}, false
}

// Produce calls the matched plugin's OnInput.
// Failures are logged and produce an empty list so one broken plugin cannot
// stall the palette.
func (d *Dispatcher) Produce(ctx context.Context, m Match) (items []ResultItem) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "plugin input panicked",
				"plugin", m.Plugin.Name, "command", m.Command.Orkey, "panic", fmt.Sprint(r))
			items = []ResultItem{}
		}
	}()

	items, err := m.Plugin.Handler.OnInput(ctx, m.Query, m.Command)
	if err != nil {
		d.logger.ErrorContext(ctx, "plugin input failed",
			"plugin", m.Plugin.Name, "command", m.Command.Orkey, "error", err)
		return []ResultItem{}
	}
	if items == nil {
		return []ResultItem{}
	}

	for i := range items {
		if items[i].Key == "" {
			items[i].Key = m.Command.Key
		}
	}
	return items
}

// Dispatch records query as the current input, then resolves and produces
// its results asynchronously. Callers render the results only if Current.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) *Future[Results] {
	ticket := d.tracker.Set(query)

	m, ok := d.Resolve(query)
	if !ok {
		return Resolved(Results{Ticket: ticket, Items: []ResultItem{}})
	}

	return Go(ctx, func(ctx context.Context) (Results, error) {
		return Results{
			Ticket:  ticket,
			Matched: true,
			Match:   m,
			Items:   d.Produce(ctx, m),
		}, nil
	})
}

// Current reports whether res still belongs to the current input
func (d *Dispatcher) Current(res Results) bool {
	if d.tracker.Current(res.Ticket) {
		return true
	}
	d.logger.Debug("dropping stale results", "query", res.Ticket.Query, "current", d.tracker.Query())
	return false
}

// accepts reports whether cmd claims query. A panicking matcher counts as a
// refusal so the remaining fallbacks still get a chance.
func (d *Dispatcher) accepts(p *Plugin, cmd Command, query string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("plugin matcher panicked",
				"plugin", p.Name, "command", cmd.Orkey, "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	switch cmd.Type {
	case TypeRegexp:
		return cmd.Pattern != nil && cmd.Pattern.MatchString(query)
	default:
		if m, ok := p.Handler.(Matcher); ok {
			return m.Accept(query, cmd)
		}
		return strings.TrimSpace(query) != ""
	}
}

// splitHead splits query at its first whitespace run
func splitHead(query string) (head, rest string) {
	i := strings.IndexFunc(query, unicode.IsSpace)
	if i < 0 {
		return query, ""
	}
	return query[:i], strings.TrimLeftFunc(query[i:], unicode.IsSpace)
}
