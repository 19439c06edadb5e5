package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egoavara/steward/internal/config"
	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/plugin"
	"github.com/egoavara/steward/internal/storage"
)

// Local test helpers

type opened struct {
	URL        string
	Background bool
}

type fakeBrowser struct {
	mu     sync.Mutex
	opened []opened
}

func (b *fakeBrowser) Open(_ context.Context, url string, background bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opened = append(b.opened, opened{URL: url, Background: background})
	return nil
}

func (b *fakeBrowser) URLs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	urls := make([]string, 0, len(b.opened))
	for _, o := range b.opened {
		urls = append(urls, o.URL)
	}
	sort.Strings(urls)
	return urls
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) Copy(text string) error {
	c.text = text
	return nil
}

type fixture struct {
	store      *storage.MemoryStore
	browser    *fakeBrowser
	clipboard  *fakeClipboard
	notices    *host.QueueNotifier
	dispatcher *plugin.Dispatcher
	executor   *plugin.Executor
}

func newFixture(t *testing.T, engines map[string]Engine, opts map[string]any) *fixture {
	t.Helper()

	f := &fixture{
		store:     storage.NewMemoryStore(),
		browser:   &fakeBrowser{},
		clipboard: &fakeClipboard{},
	}
	if engines != nil {
		require.NoError(t, f.store.Set(context.Background(), storageKey, engines))
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.notices = host.NewQueueNotifier(logger)
	h := &host.Context{
		Browser:   f.browser,
		Clipboard: f.clipboard,
		Store:     f.store,
		Notifier:  f.notices,
		Logger:    logger,
	}

	cfg := map[string]config.PluginConfig{name: {Options: opts}}
	registry := plugin.NewRegistry(h, []plugin.Factory{Factory}, cfg)
	registry.Build()
	tracker := plugin.NewTracker()
	f.dispatcher = plugin.NewDispatcher(registry, tracker)
	f.executor = plugin.NewExecutor(registry, tracker)
	return f
}

func (f *fixture) query(t *testing.T, q string) plugin.Results {
	t.Helper()
	res, err := f.dispatcher.Dispatch(context.Background(), q).Await(context.Background())
	require.NoError(t, err)
	require.True(t, res.Matched, "query %q should match", q)
	return res
}

func (f *fixture) enter(res plugin.Results, idx int, keys plugin.KeyStatus) plugin.Outcome {
	var item *plugin.ResultItem
	if idx >= 0 {
		item = &res.Items[idx]
	}
	return f.executor.Invoke(context.Background(), item, res.Match.Command, res.Match.Query, keys, res.Items)
}

func (f *fixture) engines(t *testing.T) map[string]Engine {
	t.Helper()
	engines, err := NewEngines(f.store).SyncEngines(context.Background())
	require.NoError(t, err)
	return engines
}

func titles(items []plugin.ResultItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

var testEngines = map[string]Engine{
	"Alpha": {URL: "https://alpha.example/search?q=%s", Icon: "a.svg", Count: 1},
	"Beta":  {URL: "https://beta.example/?s=%s", Icon: "b.svg", Count: 5},
	"Gamma": {URL: "https://gamma.example/find?q=%s", Icon: "g.svg", Count: 5},
}

func TestSearch_ListEngines_SortedByUse(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "se ")
	assert.Equal(t, "se", res.Match.Command.Orkey)
	assert.Equal(t, []string{"Beta", "Gamma", "Alpha"}, titles(res.Items))
	for _, item := range res.Items {
		assert.Equal(t, "se", item.Key)
	}
}

func TestSearch_ListEngines_SeedsDefaults(t *testing.T) {
	f := newFixture(t, nil, nil)

	res := f.query(t, "se")
	assert.ElementsMatch(t, []string{"Baidu", "Bing", "Google", "Stack Overflow"}, titles(res.Items))
	assert.Len(t, f.engines(t), 4, "defaults should be persisted")
}

func TestSearch_ListEngines_EnterOpensHome(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "se ")
	out := f.enter(res, 0, plugin.KeyStatus{})

	require.NoError(t, out.Err)
	assert.Equal(t, plugin.ActionClear, out.Action)
	assert.Equal(t, []string{"https://beta.example"}, f.browser.URLs())
	assert.Equal(t, 6, f.engines(t)["Beta"].Count)
}

func TestSearch_ListEngines_ShiftOpensAll(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "se ")
	out := f.enter(res, 0, plugin.KeyStatus{ShiftKey: true})

	require.NoError(t, out.Err)
	assert.Equal(t, []string{"https://alpha.example", "https://beta.example", "https://gamma.example"}, f.browser.URLs())
}

func TestSearch_Links(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "golang generics")
	assert.Equal(t, "search", res.Match.Command.Orkey)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "Beta", res.Items[0].ID)
	assert.Equal(t, "https://beta.example/?s=golang+generics", res.Items[0].Desc)

	out := f.enter(res, 1, plugin.KeyStatus{})
	require.NoError(t, out.Err)
	assert.Equal(t, []string{"https://gamma.example/find?q=golang+generics"}, f.browser.URLs())
	assert.False(t, f.browser.opened[0].Background)
	assert.Equal(t, 6, f.engines(t)["Gamma"].Count)
}

func TestSearch_Links_ShiftOpensAllInBackground(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "rust")
	out := f.enter(res, 0, plugin.KeyStatus{ShiftKey: true})

	require.NoError(t, out.Err)
	assert.Len(t, f.browser.URLs(), 3)
	for _, o := range f.browser.opened {
		assert.True(t, o.Background)
	}

	engines := f.engines(t)
	assert.Equal(t, 2, engines["Alpha"].Count)
	assert.Equal(t, 6, engines["Beta"].Count)
	assert.Equal(t, 6, engines["Gamma"].Count)
}

func TestSearch_PreferredEngineFirst(t *testing.T) {
	f := newFixture(t, testEngines, map[string]any{"preferred": "Alpha"})

	res := f.query(t, "se")
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(res.Items))
}

func TestSearch_AddEngine(t *testing.T) {
	f := newFixture(t, testEngines, nil)
	def := "Delta|https://delta.example/?q=%s|d.svg"

	res := f.query(t, "se "+def)
	require.Len(t, res.Items, 1)
	out := f.enter(res, 0, plugin.KeyStatus{})

	require.NoError(t, out.Err)
	assert.Equal(t, plugin.ActionReplace, out.Action)
	assert.Equal(t, "se ", out.Query)
	assert.Equal(t, Engine{URL: "https://delta.example/?q=%s", Icon: "d.svg"}, f.engines(t)["Delta"])

	notices := f.notices.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, host.LevelSuccess, notices[0].Level)
}

func TestSearch_AddEngine_DuplicateKeepsOriginal(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "se Alpha|https://other.example/?q=%s|x.svg")
	out := f.enter(res, 0, plugin.KeyStatus{})

	require.NoError(t, out.Err)
	assert.Equal(t, "se ", out.Query)
	assert.Equal(t, testEngines["Alpha"], f.engines(t)["Alpha"])

	notices := f.notices.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, host.LevelWarning, notices[0].Level)
}

func TestSearch_AddEngine_BadFormat(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "se not-a-definition")
	out := f.enter(res, 0, plugin.KeyStatus{})

	assert.Equal(t, plugin.ActionReplace, out.Action)
	assert.Equal(t, "se not-a-definition", out.Query)
	assert.Len(t, f.engines(t), 3)
	assert.Len(t, f.notices.Drain(), 1)
}

func TestSearch_DeleteEngine(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res := f.query(t, "se")
	out := f.enter(res, 2, plugin.KeyStatus{CtrlKey: true})

	require.NoError(t, out.Err)
	assert.Equal(t, plugin.ActionReplace, out.Action)
	assert.Equal(t, "se ", out.Query)
	assert.NotContains(t, f.engines(t), "Alpha")
	assert.Equal(t, "Alpha|https://alpha.example/search?q=%s|a.svg", f.clipboard.text)
	assert.Empty(t, f.browser.URLs())
}

func TestSearch_EmptyQueryHasNoResults(t *testing.T) {
	f := newFixture(t, testEngines, nil)

	res, err := f.dispatcher.Dispatch(context.Background(), "").Await(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Matched)
}

func TestSearch_DataEditor(t *testing.T) {
	f := newFixture(t, testEngines, nil)
	p := New(&host.Context{Store: f.store}, nil)
	require.NotNil(t, p.DataEditor)

	exported, err := p.DataEditor.Export(context.Background())
	require.NoError(t, err)
	rows, ok := exported.([]Row)
	require.True(t, ok)
	require.Len(t, rows, 3)
	assert.Equal(t, "Beta", rows[0].Name)

	data := []byte(`[{"name":"Only","url":"https://only.example/?q=%s","icon":"o.svg","count":2},{"name":"","url":"skipped"}]`)
	err = p.DataEditor.Import(context.Background(), func(v any) error { return json.Unmarshal(data, v) })
	require.NoError(t, err)

	assert.Equal(t, map[string]Engine{
		"Only": {URL: "https://only.example/?q=%s", Icon: "o.svg", Count: 2},
	}, f.engines(t))
}
