// Package help lists every available command.
package help

import (
	"context"

	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
	"github.com/egoavara/steward/internal/search"
)

// Factory registers the help plugin
var Factory = plugin.Factory{
	Name: "help",
	New:  New,
}

type handler struct {
	host *host.Context
}

type entry struct {
	plugin string
	cmd    host.CommandState
}

// New builds the help plugin
func New(h *host.Context, _ plugin.Options) *plugin.Plugin {
	icon := host.IconURL("help.svg")
	title := i18n.T("help_title", nil)

	return &plugin.Plugin{
		Name:     title,
		Category: "steward",
		Icon:     icon,
		Title:    title,
		Version:  1,
		Commands: []*plugin.Command{{
			Key:      "help",
			Type:     plugin.TypeKeyword,
			Title:    title,
			Subtitle: i18n.T("help_subtitle", nil),
			Icon:     icon,
			Editable: true,
		}},
		Handler:     &handler{host: h},
		CanDisabled: true,
	}
}

func (h *handler) entries() []entry {
	if h.host.Plugins == nil {
		return nil
	}

	var out []entry
	for _, p := range h.host.Plugins.List() {
		if p.Disabled {
			continue
		}
		for _, cmd := range p.Commands {
			out = append(out, entry{plugin: p.Title, cmd: cmd})
		}
	}
	return out
}

func (h *handler) OnInput(ctx context.Context, query string, cmd plugin.Command) ([]plugin.ResultItem, error) {
	matched := search.Filter(query, h.entries(), func(e entry) string {
		return e.cmd.Key + " " + e.cmd.Title
	})

	items := make([]plugin.ResultItem, 0, len(matched))
	for _, e := range matched {
		id := ""
		if e.cmd.Keyword {
			id = e.cmd.Key
		}
		items = append(items, plugin.ResultItem{
			Key:   cmd.Key,
			ID:    id,
			Icon:  e.cmd.Icon,
			Title: e.cmd.Key + ": " + e.cmd.Title,
			Desc:  e.cmd.Subtitle,
		})
	}
	return items, nil
}

// OnEnter pre-fills the selected keyword so the user can type its argument
func (h *handler) OnEnter(ctx context.Context, item plugin.ResultItem, cmd plugin.Command, query string, keys plugin.KeyStatus, list []plugin.ResultItem) (plugin.EnterResult, error) {
	if item.ID == "" {
		return plugin.SetQuery(cmd.Key + " " + query), nil
	}
	return plugin.SetQuery(item.ID + " "), nil
}
