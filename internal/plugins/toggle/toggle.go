// Package toggle provides the "on" and "off" keywords that enable and
// disable other plugins from the palette.
package toggle

import (
	"context"

	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
	"github.com/egoavara/steward/internal/search"
)

// OnFactory registers the plugin listing disabled plugins
var OnFactory = plugin.Factory{
	Name: "on",
	New: func(h *host.Context, _ plugin.Options) *plugin.Plugin {
		return build(h, "onPlugin", "on", true)
	},
}

// OffFactory registers the plugin listing enabled plugins
var OffFactory = plugin.Factory{
	Name: "off",
	New: func(h *host.Context, _ plugin.Options) *plugin.Plugin {
		return build(h, "offPlugin", "off", false)
	},
}

type handler struct {
	host   *host.Context
	enable bool
}

func build(h *host.Context, id, key string, enable bool) *plugin.Plugin {
	icon := host.IconURL(key + ".svg")
	title := i18n.T(id+"_title", nil)

	return &plugin.Plugin{
		Name:     title,
		Category: "steward",
		Icon:     icon,
		Title:    title,
		Version:  1,
		Commands: []*plugin.Command{{
			Key:      key,
			Type:     plugin.TypeKeyword,
			Title:    title,
			Subtitle: i18n.T(id+"_subtitle", nil),
			Icon:     icon,
			Editable: true,
		}},
		Handler: &handler{host: h, enable: enable},
	}
}

// candidates are the disableable plugins this handler can flip
func (h *handler) candidates() []host.PluginState {
	if h.host.Plugins == nil {
		return nil
	}

	var out []host.PluginState
	for _, p := range h.host.Plugins.List() {
		// "on" lists disabled plugins, "off" lists enabled ones
		if p.CanDisabled && p.Disabled == h.enable {
			out = append(out, p)
		}
	}
	return out
}

func (h *handler) OnInput(ctx context.Context, query string, cmd plugin.Command) ([]plugin.ResultItem, error) {
	matched := search.Filter(query, h.candidates(), func(p host.PluginState) string {
		return p.Title
	})

	items := make([]plugin.ResultItem, 0, len(matched))
	for _, p := range matched {
		desc := ""
		if len(p.Commands) > 0 {
			desc = p.Commands[0].Subtitle
		}
		items = append(items, plugin.ResultItem{
			Key:    cmd.Key,
			ID:     p.ID,
			Icon:   p.Icon,
			Title:  p.Title,
			Desc:   desc,
			IsWarn: !h.enable,
		})
	}
	return items, nil
}

func (h *handler) OnEnter(ctx context.Context, item plugin.ResultItem, cmd plugin.Command, query string, keys plugin.KeyStatus, list []plugin.ResultItem) (plugin.EnterResult, error) {
	if item.ID == "" || h.host.Plugins == nil {
		return plugin.NoOp(), nil
	}
	if err := h.host.Plugins.SetEnabled(ctx, item.ID, h.enable); err != nil {
		return plugin.NoOp(), err
	}

	msg := "plugin_disabled"
	if h.enable {
		msg = "plugin_enabled"
	}
	h.host.Notifier.Success(i18n.T(msg, map[string]any{"Name": item.Title}))

	// stay in the keyword so the list refreshes
	return plugin.SetQuery(cmd.Key + " "), nil
}
