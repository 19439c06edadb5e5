package search

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/egoavara/steward/internal/host"
	"github.com/egoavara/steward/internal/storage"
)

// storageKey is the store entry holding the engine table
const storageKey = "engines"

var (
	// ErrEngineFormat is returned for a definition that is not name|url|icon
	ErrEngineFormat = errors.New("engine definition must be name|url|icon")
	// ErrEngineExists is returned when adding a name that is already present
	ErrEngineExists = errors.New("engine already exists")
	// ErrEngineNotFound is returned for an unknown engine name
	ErrEngineNotFound = errors.New("engine not found")
)

// Engine is one persisted search engine
type Engine struct {
	URL   string `json:"url"`
	Icon  string `json:"icon"`
	Count int    `json:"count,omitempty"`
}

// Ranked is an engine with its name, as listed to the user
type Ranked struct {
	Name string
	Engine
}

func defaultEngines() map[string]Engine {
	return map[string]Engine{
		"Google":         {URL: "https://www.google.com/search?q=%s", Icon: host.IconURL("google.svg")},
		"Baidu":          {URL: "https://www.baidu.com/s?wd=%s", Icon: host.IconURL("baidu.svg")},
		"Bing":           {URL: "https://bing.com/search?q=%s", Icon: host.IconURL("bing.svg")},
		"Stack Overflow": {URL: "https://stackoverflow.com/search?q=%s", Icon: host.IconURL("stackoverflow.svg")},
	}
}

// Engines caches the engine table and writes every change through to the store
type Engines struct {
	mu      sync.Mutex
	store   storage.Store
	engines map[string]Engine
}

// NewEngines creates an engine table backed by store
func NewEngines(store storage.Store) *Engines {
	return &Engines{store: store}
}

// load fills the cache on first use. A store without an engine table is
// seeded with the defaults; a stored empty table stays empty.
// Callers hold e.mu.
func (e *Engines) load(ctx context.Context) error {
	if e.engines != nil {
		return nil
	}

	engines := make(map[string]Engine)
	found, err := e.store.Get(ctx, storageKey, &engines)
	if err != nil {
		return fmt.Errorf("failed to read engines: %w", err)
	}
	if !found {
		engines = defaultEngines()
		if err := e.store.Set(ctx, storageKey, engines); err != nil {
			return fmt.Errorf("failed to seed engines: %w", err)
		}
	}

	e.engines = engines
	return nil
}

// save persists the cache. Callers hold e.mu.
func (e *Engines) save(ctx context.Context) error {
	if err := e.store.Set(ctx, storageKey, e.engines); err != nil {
		return fmt.Errorf("failed to save engines: %w", err)
	}
	return nil
}

// SyncEngines returns a copy of the engine table
func (e *Engines) SyncEngines(ctx context.Context) (map[string]Engine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return maps.Clone(e.engines), nil
}

// Ranked returns every engine, most used first, ties by name
func (e *Engines) Ranked(ctx context.Context) ([]Ranked, error) {
	engines, err := e.SyncEngines(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]Ranked, 0, len(engines))
	for name, engine := range engines {
		list = append(list, Ranked{Name: name, Engine: engine})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// ParseDefinition splits "name|url|icon"
func ParseDefinition(def string) (name string, engine Engine, err error) {
	parts := strings.Split(def, "|")
	if len(parts) != 3 {
		return "", Engine{}, ErrEngineFormat
	}
	name = strings.TrimSpace(parts[0])
	if name == "" {
		return "", Engine{}, ErrEngineFormat
	}
	return name, Engine{URL: strings.TrimSpace(parts[1]), Icon: strings.TrimSpace(parts[2])}, nil
}

// AddEngine adds an engine from a "name|url|icon" definition.
// An existing engine with the same name is left untouched.
func (e *Engines) AddEngine(ctx context.Context, def string) error {
	name, engine, err := ParseDefinition(def)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.load(ctx); err != nil {
		return err
	}
	if _, ok := e.engines[name]; ok {
		return fmt.Errorf("%w: %s", ErrEngineExists, name)
	}

	e.engines[name] = engine
	return e.save(ctx)
}

// DeleteEngine removes an engine and returns its definition
func (e *Engines) DeleteEngine(ctx context.Context, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.load(ctx); err != nil {
		return "", err
	}
	engine, ok := e.engines[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrEngineNotFound, name)
	}

	delete(e.engines, name)
	if err := e.save(ctx); err != nil {
		return "", err
	}
	return Definition(name, engine), nil
}

// Bump increments the usage count of the named engines
func (e *Engines) Bump(ctx context.Context, names ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.load(ctx); err != nil {
		return err
	}
	for _, name := range names {
		engine, ok := e.engines[name]
		if !ok {
			continue
		}
		engine.Count++
		e.engines[name] = engine
	}
	return e.save(ctx)
}

// Replace swaps the whole table
func (e *Engines) Replace(ctx context.Context, engines map[string]Engine) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.engines = maps.Clone(engines)
	if e.engines == nil {
		e.engines = make(map[string]Engine)
	}
	return e.save(ctx)
}

// Definition formats an engine as "name|url|icon"
func Definition(name string, engine Engine) string {
	return name + "|" + engine.URL + "|" + engine.Icon
}

// SearchURL fills an engine URL template with query.
// "%s" is replaced; a template without it gets the query appended.
func SearchURL(template, query string) string {
	fixed := url.QueryEscape(query)
	if strings.Contains(template, "%s") {
		return strings.Replace(template, "%s", fixed, 1)
	}
	return template + fixed
}

// HomeURL returns the scheme and host of an engine URL template
func HomeURL(template string) string {
	u, err := url.Parse(strings.Replace(template, "%s", "", 1))
	if err != nil || u.Host == "" {
		return template
	}
	return u.Scheme + "://" + u.Host
}
