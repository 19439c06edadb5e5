package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egoavara/steward/internal/storage"
)

func TestParseDefinition(t *testing.T) {
	tests := []struct {
		name   string
		def    string
		engine string
		want   Engine
		err    error
	}{
		{name: "Valid", def: "DuckDuckGo|https://duckduckgo.com/?q=%s|ddg.svg", engine: "DuckDuckGo",
			want: Engine{URL: "https://duckduckgo.com/?q=%s", Icon: "ddg.svg"}},
		{name: "TrimsSpaces", def: " Bing | https://bing.com/search?q=%s | b.svg ", engine: "Bing",
			want: Engine{URL: "https://bing.com/search?q=%s", Icon: "b.svg"}},
		{name: "EmptyIcon", def: "Bare|https://bare.example/?q=%s|", engine: "Bare",
			want: Engine{URL: "https://bare.example/?q=%s"}},
		{name: "TooFewParts", def: "Bing|https://bing.com", err: ErrEngineFormat},
		{name: "TooManyParts", def: "a|b|c|d", err: ErrEngineFormat},
		{name: "EmptyName", def: " |https://x|y", err: ErrEngineFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, engine, err := ParseDefinition(tt.def)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.engine, name)
			assert.Equal(t, tt.want, engine)
		})
	}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name     string
		template string
		query    string
		want     string
	}{
		{name: "Placeholder", template: "https://www.google.com/search?q=%s", query: "golang", want: "https://www.google.com/search?q=golang"},
		{name: "SpacesEscaped", template: "https://bing.com/search?q=%s", query: "a b", want: "https://bing.com/search?q=a+b"},
		{name: "SpecialChars", template: "https://x.example/?q=%s", query: "c++ & go", want: "https://x.example/?q=c%2B%2B+%26+go"},
		{name: "NoPlaceholder", template: "https://x.example/?q=", query: "go", want: "https://x.example/?q=go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchURL(tt.template, tt.query))
		})
	}
}

func TestHomeURL(t *testing.T) {
	assert.Equal(t, "https://www.baidu.com", HomeURL("https://www.baidu.com/s?wd=%s"))
	assert.Equal(t, "not a url", HomeURL("not a url"))
}

func TestEngines_AddAndDelete(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	engines := NewEngines(store)

	require.NoError(t, engines.AddEngine(ctx, "X|https://x.example/?q=%s|x.svg"))
	err := engines.AddEngine(ctx, "X|https://other.example|o.svg")
	assert.ErrorIs(t, err, ErrEngineExists)

	all, err := engines.SyncEngines(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5, "defaults plus the new engine")
	assert.Equal(t, "https://x.example/?q=%s", all["X"].URL)

	// SyncEngines returns a copy
	delete(all, "X")
	again, err := engines.SyncEngines(ctx)
	require.NoError(t, err)
	assert.Contains(t, again, "X")

	def, err := engines.DeleteEngine(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "X|https://x.example/?q=%s|x.svg", def)

	_, err = engines.DeleteEngine(ctx, "X")
	assert.ErrorIs(t, err, ErrEngineNotFound)

	// a fresh cache reads the persisted table
	persisted, err := NewEngines(store).SyncEngines(ctx)
	require.NoError(t, err)
	assert.NotContains(t, persisted, "X")
	assert.Len(t, persisted, 4)
}

func TestEngines_EmptiedTableStaysEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	engines := NewEngines(store)

	all, err := engines.SyncEngines(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for name := range all {
		_, err := engines.DeleteEngine(ctx, name)
		require.NoError(t, err)
	}

	reloaded, err := NewEngines(store).SyncEngines(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded, "deleted defaults must not be seeded again")

	require.NoError(t, NewEngines(store).Replace(ctx, map[string]Engine{}))
	reloaded, err = NewEngines(store).SyncEngines(ctx)
	require.NoError(t, err)
	assert.Empty(t, reloaded)
}

func TestEngines_Ranked(t *testing.T) {
	ctx := context.Background()
	engines := NewEngines(storage.NewMemoryStore())
	require.NoError(t, engines.Replace(ctx, map[string]Engine{
		"b": {Count: 1},
		"a": {Count: 1},
		"c": {Count: 3},
	}))
	require.NoError(t, engines.Bump(ctx, "a", "missing"))

	ranked, err := engines.Ranked(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}
