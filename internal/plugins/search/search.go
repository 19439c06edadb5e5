// Package search provides web search through user-managed search engines.
//
// The plugin owns two commands: "search", a fallback that offers one link per
// engine for any free text, and the "se" keyword that lists, adds and deletes
// engines. Engine usage counts order both lists.
package search

import (
	"context"
	"errors"

	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/i18n"
	"github.com/egoavara/steward/internal/plugin"
	"golang.org/x/sync/errgroup"
)

const (
	name    = "search"
	version = 2

	orkeySearch = "search"
	orkeyManage = "se"

	// openLimit bounds concurrent browser launches for Shift+Enter
	openLimit = 4
)

// link is the payload of a search result row
type link struct {
	Engine string
	URL    string
}

// Row is one engine as shown by the data editor
type Row struct {
	Name  string `json:"name" yaml:"name"`
	URL   string `json:"url" yaml:"url"`
	Icon  string `json:"icon" yaml:"icon"`
	Count int    `json:"count" yaml:"count"`
}

var schema = plugin.Schema{
	Fields: []plugin.Field{
		{Name: "name", Type: plugin.FieldString, Columns: 2},
		{Name: "url", Type: plugin.FieldString, Columns: 5},
		{Name: "icon", Type: plugin.FieldString, Columns: 4},
		{Name: "count", Type: plugin.FieldNumber, Columns: 1},
	},
}

type handler struct {
	host      *host.Context
	engines   *Engines
	preferred string
}

// Factory registers the search plugin.
// Option "preferred" names an engine always listed first.
var Factory = plugin.Factory{
	Name: name,
	New:  New,
}

// New builds the search plugin
func New(h *host.Context, opts plugin.Options) *plugin.Plugin {
	hd := &handler{
		host:      h,
		engines:   NewEngines(h.Store),
		preferred: opts.String("preferred", ""),
	}

	icon := host.IconURL("google.svg")
	return &plugin.Plugin{
		Name:     "Search",
		Category: "other",
		Icon:     icon,
		Title:    i18n.T("search_title", nil),
		Version:  version,
		Commands: []*plugin.Command{
			{
				Key:      orkeySearch,
				Type:     plugin.TypeOther,
				Title:    i18n.T("search_title", nil),
				Subtitle: i18n.T("search_subtitle", nil),
				Icon:     icon,
				ShiftKey: true,
			},
			{
				Key:      orkeyManage,
				Type:     plugin.TypeKeyword,
				Title:    i18n.T("search_se_title", nil),
				Subtitle: i18n.T("search_se_subtitle", nil),
				Icon:     icon,
				Editable: true,
			},
		},
		Handler:    hd,
		DataEditor: plugin.NewDataEditor(schema, hd.rows, hd.saveRows),
	}
}

func (h *handler) OnInput(ctx context.Context, query string, cmd plugin.Command) ([]plugin.ResultItem, error) {
	if cmd.Orkey == orkeySearch {
		if query == "" {
			return []plugin.ResultItem{}, nil
		}
		return h.searchLinks(ctx, query, cmd)
	}

	if query != "" {
		return plugin.DefaultResult(cmd), nil
	}

	items, err := h.engineList(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return plugin.DefaultResult(cmd), nil
	}
	return items, nil
}

func (h *handler) ranked(ctx context.Context) ([]Ranked, error) {
	list, err := h.engines.Ranked(ctx)
	if err != nil {
		return nil, err
	}
	if h.preferred == "" {
		return list, nil
	}
	for i, r := range list {
		if r.Name == h.preferred {
			out := append([]Ranked{r}, list[:i]...)
			return append(out, list[i+1:]...), nil
		}
	}
	return list, nil
}

func (h *handler) searchLinks(ctx context.Context, query string, cmd plugin.Command) ([]plugin.ResultItem, error) {
	list, err := h.ranked(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]plugin.ResultItem, 0, len(list))
	for _, r := range list {
		target := SearchURL(r.URL, query)
		items = append(items, plugin.ResultItem{
			Key:   cmd.Key,
			ID:    r.Name,
			Icon:  r.Icon,
			Title: i18n.T("search_link", map[string]any{"Engine": r.Name, "Query": query}),
			Desc:  target,
			Data:  link{Engine: r.Name, URL: target},
		})
	}
	return items, nil
}

func (h *handler) engineList(ctx context.Context, cmd plugin.Command) ([]plugin.ResultItem, error) {
	list, err := h.ranked(ctx)
	if err != nil {
		return nil, err
	}

	desc := i18n.T("search_removese_subtitle", nil)
	items := make([]plugin.ResultItem, 0, len(list))
	for _, r := range list {
		items = append(items, plugin.ResultItem{
			Key:   cmd.Key,
			ID:    r.Name,
			Icon:  r.Icon,
			Title: r.Name,
			Desc:  desc,
			Data:  link{Engine: r.Name, URL: HomeURL(r.URL)},
		})
	}
	return items, nil
}

func (h *handler) OnEnter(ctx context.Context, item plugin.ResultItem, cmd plugin.Command, query string, keys plugin.KeyStatus, list []plugin.ResultItem) (plugin.EnterResult, error) {
	if cmd.Orkey == orkeyManage {
		if query != "" {
			return h.addEngine(ctx, query, cmd), nil
		}
		if keys.CtrlKey {
			return h.deleteEngine(ctx, item, cmd)
		}
	}

	targets := []plugin.ResultItem{item}
	if keys.ShiftKey {
		targets = list
	}
	return plugin.NoOp(), h.open(ctx, targets, keys.ShiftKey || keys.MetaKey)
}

// open launches every target and counts one use per engine
func (h *handler) open(ctx context.Context, targets []plugin.ResultItem, background bool) error {
	var (
		g     errgroup.Group
		names []string
	)
	g.SetLimit(openLimit)

	for _, t := range targets {
		l, ok := t.Data.(link)
		if !ok {
			continue
		}
		names = append(names, l.Engine)
		g.Go(func() error {
			return h.host.Browser.Open(ctx, l.URL, background)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	return h.engines.Bump(ctx, names...)
}

func (h *handler) addEngine(ctx context.Context, def string, cmd plugin.Command) plugin.EnterResult {
	if _, _, err := ParseDefinition(def); err != nil {
		h.host.Notifier.Warning(i18n.T("search_warning_format", nil))
		return plugin.SetQuery(cmd.Key + " " + def)
	}

	return plugin.Deferred(plugin.Go(ctx, func(ctx context.Context) (string, error) {
		err := h.engines.AddEngine(ctx, def)
		switch {
		case errors.Is(err, ErrEngineExists):
			h.host.Notifier.Warning(i18n.T("not_add_repeatedly", nil))
		case err != nil:
			return "", err
		default:
			h.host.Notifier.Success(i18n.T("add_ok", nil))
		}
		return cmd.Key + " ", nil
	}))
}

func (h *handler) deleteEngine(ctx context.Context, item plugin.ResultItem, cmd plugin.Command) (plugin.EnterResult, error) {
	l, ok := item.Data.(link)
	if !ok {
		return plugin.NoOp(), nil
	}

	def, err := h.engines.DeleteEngine(ctx, l.Engine)
	if err != nil {
		return plugin.NoOp(), err
	}

	// keep a copy so an accidental delete can be re-added with "se <paste>"
	if err := h.host.Clipboard.Copy(def); err != nil {
		h.host.Logger.WarnContext(ctx, "failed to copy deleted engine", "engine", l.Engine, "error", err)
	}
	h.host.Notifier.Success(i18n.T("delete_ok", nil))
	return plugin.SetQuery(cmd.Key + " "), nil
}

func (h *handler) rows(ctx context.Context) ([]Row, error) {
	list, err := h.engines.Ranked(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(list))
	for _, r := range list {
		rows = append(rows, Row{Name: r.Name, URL: r.URL, Icon: r.Icon, Count: r.Count})
	}
	return rows, nil
}

func (h *handler) saveRows(ctx context.Context, rows []Row) error {
	engines := make(map[string]Engine, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		engines[r.Name] = Engine{URL: r.URL, Icon: r.Icon, Count: r.Count}
	}
	return h.engines.Replace(ctx, engines)
}
