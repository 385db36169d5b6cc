// Package memory implements core.Storage in memory.
// Nothing survives the process; it backs tests and the "memory" adapter.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/pph/pkg/core"
)

// Storage is a map-backed core.Storage.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

// New creates an empty storage.
func New() *Storage {
	return &Storage{values: make(map[string]string)}
}

// NewFrom creates a storage pre-populated with values.
func NewFrom(values map[string]string) *Storage {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Storage) Initialize(ctx context.Context) error { return nil }

func (s *Storage) Read(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Storage) Write(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.writes++
	return nil
}

// Keys returns stored keys in sorted order.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Writes counts Write and Remove calls. Tests use it to assert that a
// no-op mutation did or did not persist.
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// StorageState exposes internal state for observability.
type StorageState struct {
	Keys   int `json:"keys"`
	Writes int `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StorageState{Keys: len(s.values), Writes: s.writes}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ core.Lister = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
