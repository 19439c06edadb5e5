// Package openurl opens a typed URL directly.
package openurl

import (
	"context"
	"regexp"
	"strings"

	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
)

// Pattern accepts scheme URLs and bare host names ending in an alphabetic TLD
var Pattern = regexp.MustCompile(`^(?i)(https?://\S+|www\.\S+|[a-z0-9-]+(\.[a-z0-9-]+)*\.[a-z]{2,}(/\S*)?)$`)

// Factory registers the openurl plugin
var Factory = plugin.Factory{
	Name: "openurl",
	New:  New,
}

type handler struct {
	host *host.Context
}

// New builds the openurl plugin
func New(h *host.Context, _ plugin.Options) *plugin.Plugin {
	icon := host.IconURL("openurl.svg")
	title := i18n.T("openurl_title", nil)

	return &plugin.Plugin{
		Name:     title,
		Category: "other",
		Icon:     icon,
		Title:    title,
		Version:  1,
		Commands: []*plugin.Command{{
			Key:      "openurl",
			Type:     plugin.TypeRegexp,
			Title:    title,
			Subtitle: i18n.T("openurl_subtitle", nil),
			Icon:     icon,
			Pattern:  Pattern,
		}},
		Handler:     &handler{host: h},
		CanDisabled: true,
	}
}

// Normalize prefixes bare host names with https://
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

func (h *handler) OnInput(ctx context.Context, query string, cmd plugin.Command) ([]plugin.ResultItem, error) {
	target := Normalize(query)
	return []plugin.ResultItem{{
		Key:   cmd.Key,
		ID:    target,
		Icon:  cmd.Icon,
		Title: i18n.T("openurl_item", map[string]any{"URL": target}),
		Desc:  cmd.Subtitle,
	}}, nil
}

func (h *handler) OnEnter(ctx context.Context, item plugin.ResultItem, cmd plugin.Command, query string, keys plugin.KeyStatus, list []plugin.ResultItem) (plugin.EnterResult, error) {
	if item.ID == "" {
		return plugin.NoOp(), nil
	}
	return plugin.NoOp(), h.host.Browser.Open(ctx, item.ID, keys.MetaKey)
}
