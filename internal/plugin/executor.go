package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/egoavara/steward/internal/host"
)

// Action is what the host does with its input box after an enter
type Action int

const (
	// ActionNone leaves the input untouched
	ActionNone Action = iota
	// ActionClear empties the input
	ActionClear
	// ActionReplace sets the input to Outcome.Query
	ActionReplace
)

// Outcome is the normalized result of an enter
type Outcome struct {
	Action Action
	Query  string
	Stale  bool  // a deferred replacement arrived after the input changed
	Err    error // OnEnter failed; already reported to the notifier
}

// Executor runs OnEnter for a selected result item
type Executor struct {
	registry *Registry
	tracker  *Tracker
	notifier host.Notifier
	logger   *slog.Logger
}

// NewExecutor creates an executor sharing tracker with the dispatcher
func NewExecutor(registry *Registry, tracker *Tracker) *Executor {
	var notifier host.Notifier = host.NopNotifier{}
	if registry.host != nil && registry.host.Notifier != nil {
		notifier = registry.host.Notifier
	}
	return &Executor{
		registry: registry,
		tracker:  tracker,
		notifier: notifier,
		logger:   registry.logger(),
	}
}

// Invoke dispatches item to the plugin owning item.Key and applies the result.
// A missing item is a normal state (Enter with nothing highlighted) and is a no-op.
func (e *Executor) Invoke(ctx context.Context, item *ResultItem, cmd Command, query string, keys KeyStatus, list []ResultItem) Outcome {
	if item == nil || item.Key == "" {
		return Outcome{Action: ActionNone}
	}

	p, _, ok := e.registry.owner(item.Key)
	if !ok {
		e.logger.WarnContext(ctx, "no plugin owns result key", "key", item.Key)
		return Outcome{Action: ActionNone}
	}

	ticket := e.tracker.Latest()

	res, err := e.enter(ctx, p, *item, cmd, query, keys, list)
	if err != nil {
		return e.fail(ctx, p, err)
	}

	if s, ok := res.Query(); ok {
		return Outcome{Action: ActionReplace, Query: s}
	}

	if f, ok := res.Future(); ok {
		s, err := f.Await(ctx)
		if err != nil {
			return e.fail(ctx, p, err)
		}
		if !e.tracker.Current(ticket) {
			e.logger.DebugContext(ctx, "dropping stale enter result", "plugin", p.Name, "query", ticket.Query)
			return Outcome{Action: ActionNone, Stale: true}
		}
		return Outcome{Action: ActionReplace, Query: s}
	}

	return Outcome{Action: ActionClear}
}

func (e *Executor) enter(ctx context.Context, p *Plugin, item ResultItem, cmd Command, query string, keys KeyStatus, list []ResultItem) (res EnterResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Handler.OnEnter(ctx, item, cmd, query, keys, list)
}

func (e *Executor) fail(ctx context.Context, p *Plugin, err error) Outcome {
	e.logger.ErrorContext(ctx, "plugin action failed", "plugin", p.Name, "error", err)
	e.notifier.Error(fmt.Sprintf("%s: %v", p.Name, err))
	return Outcome{Action: ActionNone, Err: err}
}
