package pph

import (
	"log/slog"
	"time"

	"github.com/aretw0/pph/internal/platform"
	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/hub"
)

// --- Types ---

// Hub is the application state of one widget instance.
type Hub = hub.Hub

// Storage is the key/value contract every adapter implements.
type Storage = core.Storage

// --- Configuration ---

// Option defines a functional option for configuring pph.
type Option = platform.Option

// Adapter names.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
	AdapterMemory = platform.AdapterMemory
)

// WithAdapter selects the storage adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStorage injects a custom storage.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithLogger sets the logger for the storage and the hub.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock sets the time source for record ids.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir sets the hidden bookkeeping directory name (e.g. ".pph").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the buffer size of watch and subscriber channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithLockTimeout bounds how long a write waits for the storage lock.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithWatcherErrorHandler registers a callback for watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens the storage at path and returns a bootstrapped Hub.
func New(path string, opts ...Option) (*hub.Hub, error) {
	return platform.New(path, opts...)
}

// Open returns the initialized storage at path without a Hub.
func Open(path string, opts ...Option) (core.Storage, error) {
	return platform.Open(path, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath determines the actual data directory based on safety rules.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a data directory marker.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
