package core

import "context"

// Storage defines the contract for the key/value store backing the hub.
// It mirrors the browser's localStorage: string keys, string values, no
// transactions. Adhering to this interface keeps the stores independent of
// the underlying mechanism (files, SQLite, memory).
type Storage interface {
	// Read returns the value stored under key. ok is false when the key is absent.
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	// Write stores value under key, replacing any previous value.
	Write(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Lister is implemented by storages that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Watchable is implemented by storages that can report external changes,
// the equivalent of the browser's "storage" event.
type Watchable interface {
	// Watch emits an Event for every key matching the doublestar pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Closer is implemented by storages holding resources (database handles).
type Closer interface {
	Close() error
}
