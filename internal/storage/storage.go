package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persisted key-value store plugins keep their state in
type Store interface {
	// Get decodes the value stored under name into v.
	// It reports false when nothing is stored.
	Get(ctx context.Context, name string, v any) (bool, error)
	// Set replaces the value stored under name
	Set(ctx context.Context, name string, v any) error
}

// FileStore keeps every value in a single JSON document
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store backed by the JSON file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// load reads the whole document; a missing file is an empty store
func (s *FileStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := make(map[string]json.RawMessage)
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	return doc, nil
}

// save writes the document through a temp file so readers never see a partial write
func (s *FileStore) save(doc map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Get(ctx context.Context, name string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.load()
	if err != nil {
		return false, err
	}

	raw, ok := doc[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %q: %w", name, err)
	}
	return true, nil
}

func (s *FileStore) Set(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc[name] = raw
	return s.save(doc)
}

// MemoryStore is an in-process Store, values round-trip through JSON
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, name string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	raw, ok := s.data[name]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (s *MemoryStore) Set(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[name] = raw
	s.mu.Unlock()
	return nil
}
