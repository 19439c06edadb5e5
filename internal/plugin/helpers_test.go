package plugin

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/egoavara/steward/internal/host"
)

// Local test helpers

// fakeHandler delegates to optional funcs and counts OnInput calls
type fakeHandler struct {
	input  func(ctx context.Context, query string, cmd Command) ([]ResultItem, error)
	enter  func(ctx context.Context, item ResultItem, cmd Command, query string, keys KeyStatus, list []ResultItem) (EnterResult, error)
	inputs atomic.Int32
}

func (h *fakeHandler) OnInput(ctx context.Context, query string, cmd Command) ([]ResultItem, error) {
	h.inputs.Add(1)
	if h.input == nil {
		return DefaultResult(cmd), nil
	}
	return h.input(ctx, query, cmd)
}

func (h *fakeHandler) OnEnter(ctx context.Context, item ResultItem, cmd Command, query string, keys KeyStatus, list []ResultItem) (EnterResult, error) {
	if h.enter == nil {
		return NoOp(), nil
	}
	return h.enter(ctx, item, cmd, query, keys, list)
}

// newTestHost creates a host context with a silent logger and a queue notifier
func newTestHost() (*host.Context, *host.QueueNotifier) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notices := host.NewQueueNotifier(logger)
	return &host.Context{Logger: logger, Notifier: notices}, notices
}

// keywordPlugin creates a disableable plugin with one editable keyword command
func keywordPlugin(key string, h Handler) *Plugin {
	return &Plugin{
		Name:        key + "-plugin",
		Title:       key,
		Commands:    []*Command{{Key: key, Type: TypeKeyword, Title: key, Editable: true}},
		Handler:     h,
		CanDisabled: true,
	}
}

// fallbackPlugin creates a plugin with one non-keyword command
func fallbackPlugin(key string, h Handler) *Plugin {
	return &Plugin{
		Name:     key + "-plugin",
		Title:    key,
		Commands: []*Command{{Key: key, Type: TypeOther, Title: key}},
		Handler:  h,
	}
}

// factoryOf wraps a fixed descriptor into a factory
func factoryOf(name string, p *Plugin) Factory {
	return Factory{
		Name: name,
		New:  func(*host.Context, Options) *Plugin { return p },
	}
}

// newTestCore builds a private registry plus dispatcher and executor
func newTestCore(factories ...Factory) (*Registry, *Dispatcher, *Executor, *host.QueueNotifier) {
	h, notices := newTestHost()
	registry := NewRegistry(h, factories, nil)
	registry.Build()
	tracker := NewTracker()
	return registry, NewDispatcher(registry, tracker), NewExecutor(registry, tracker), notices
}
