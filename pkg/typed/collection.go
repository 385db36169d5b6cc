// Package typed provides type-safe collections of records persisted as a
// single JSON array under one storage key.
package typed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/pph/pkg/core"
)

// Collection is an ordered list of records mirrored to one storage key.
// Every mutation rewrites the whole array.
type Collection[T core.Record] struct {
	mu      sync.Mutex
	key     string
	storage core.Storage
	ids     *core.IDGenerator
	logger  *slog.Logger
	items   []T
	loaded  bool
}

// Option configures a Collection.
type Option func(*options)

type options struct {
	ids    *core.IDGenerator
	logger *slog.Logger
}

// WithIDGenerator shares an id generator between collections.
func WithIDGenerator(g *core.IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewCollection creates an empty collection bound to key. Call Load to read
// persisted records.
func NewCollection[T core.Record](storage core.Storage, key string, opts ...Option) *Collection[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.ids == nil {
		o.ids = core.NewIDGenerator(nil)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Collection[T]{
		key:     key,
		storage: storage,
		ids:     o.ids,
		logger:  o.logger,
		items:   []T{},
	}
}

// Key returns the storage key backing the collection.
func (c *Collection[T]) Key() string { return c.key }

// Load replaces the in-memory list with the persisted one.
// A missing key or unparsable value yields an empty collection.
func (c *Collection[T]) Load(ctx context.Context) error {
	raw, ok, err := c.storage.Read(ctx, c.key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", c.key, err)
	}

	items := []T{}
	if ok {
		var parsed []T
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			c.logger.Debug("discarding malformed collection", "key", c.key, "error", err)
		} else if parsed != nil {
			items = parsed
		}
	}

	for _, item := range items {
		c.ids.Observe(item.RecordID())
	}

	c.mu.Lock()
	c.items = items
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Add allocates an id, builds the record and persists the list.
// When build fails nothing is mutated or written.
func (c *Collection[T]) Add(ctx context.Context, build func(id int64) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, err := build(c.ids.Next())
	if err != nil {
		var zero T
		return zero, err
	}

	prev := c.items
	c.items = append(cloneItems(prev), item)
	if err := c.persist(ctx); err != nil {
		c.items = prev
		var zero T
		return zero, err
	}
	return item, nil
}

// Update applies fn to the record with id. It reports false, without
// writing, when no such record exists.
func (c *Collection[T]) Update(ctx context.Context, id int64, fn func(*T) error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false, nil
	}

	next := cloneItems(c.items)
	if err := fn(&next[idx]); err != nil {
		return false, err
	}

	prev := c.items
	c.items = next
	if err := c.persist(ctx); err != nil {
		c.items = prev
		return false, err
	}
	return true, nil
}

// Remove drops the record with id and persists the list. Removing an unknown
// id still writes.
func (c *Collection[T]) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if item.RecordID() != id {
			next = append(next, item)
		}
	}

	prev := c.items
	c.items = next
	if err := c.persist(ctx); err != nil {
		c.items = prev
		return err
	}
	return nil
}

// All returns a copy of the records in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// Get returns the record with id.
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		return c.items[idx], true
	}
	var zero T
	return zero, false
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) indexOf(id int64) int {
	for i, item := range c.items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}

// persist must be called with c.mu held.
func (c *Collection[T]) persist(ctx context.Context) error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	if err := c.storage.Write(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", c.key, err)
	}
	return nil
}

func cloneItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// CollectionState is the introspection view of a collection.
type CollectionState struct {
	Key    string `json:"key"`
	Len    int    `json:"len"`
	Loaded bool   `json:"loaded"`
}

// State implements introspection.Introspectable.
func (c *Collection[T]) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CollectionState{Key: c.key, Len: len(c.items), Loaded: c.loaded}
}

// ComponentType implements introspection.Component.
func (c *Collection[T]) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Collection[core.Todo])(nil)
var _ introspection.Component = (*Collection[core.Todo])(nil)
