// Package fs implements core.Storage on a local directory: one file per key,
// written atomically, with an mtime-keyed read cache and an fsnotify watcher.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/pph/pkg/core"
)

// DefaultSystemDir holds the lock file and other bookkeeping.
const DefaultSystemDir = ".pph"

// Storage implements core.Storage using the filesystem.
type Storage struct {
	Path   string
	config Config
	cache  *cache
	lock   *fileLock

	mu            sync.RWMutex
	watcherActive bool
	selfWrites    map[string]selfWrite
	writes        int
}

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path         string
	SystemDir    string // e.g. ".pph"
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	LockTimeout  time.Duration // Zero means DefaultLockTimeout, negative waits for ctx only.
	EventBuffer  int           // Zero means 16.
	ErrorHandler func(error)   // Receives watcher failures.
}

// NewStorage creates a new filesystem-backed storage. It does no I/O until
// Initialize is called.
func NewStorage(config Config) *Storage {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 16
	}
	if config.LockTimeout == 0 {
		config.LockTimeout = DefaultLockTimeout
	}

	lock := newFileLock(filepath.Join(config.Path, config.SystemDir, "pph.lock"), config.LockTimeout)
	if logger := config.Logger; logger != nil {
		lock.onBreak = func(age time.Duration) {
			logger.Warn("removed stale storage lock", "path", lock.path, "age", age)
		}
	}
	return &Storage{
		Path:       config.Path,
		config:     config,
		cache:      newCache(),
		lock:       lock,
		selfWrites: make(map[string]selfWrite),
	}
}

// Initialize creates the data directory and its system directory.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", s.Path)
		}
	}
	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Read returns the value of key. A missing file means an absent key.
func (s *Storage) Read(ctx context.Context, key string) (string, bool, error) {
	path, err := s.keyPath(key)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		s.cache.Delete(key)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	if v, hit := s.cache.Get(key, info.ModTime(), info.Size()); hit {
		return v, true, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	s.cache.Set(key, string(data), info.ModTime(), info.Size())
	return string(data), true, nil
}

// Write stores value under key.
//
// Workflow:
//  1. Acquire the cross-process lock.
//  2. Write atomically (temp file + rename).
//  3. Remember the resulting mtime so the watcher can skip our own change.
func (s *Storage) Write(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire storage lock: %w", err)
	}
	defer unlock()

	if s.config.Logger != nil {
		s.config.Logger.Debug("writing key", "key", key, "bytes", len(value))
	}

	s.beginSelfWrite(key)
	if err := writeFileAtomic(path, []byte(value), 0644); err != nil {
		s.endSelfWrite(key, selfWrite{})
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if info, err := os.Stat(path); err == nil {
		s.cache.Set(key, value, info.ModTime(), info.Size())
		s.endSelfWrite(key, selfWrite{mtime: info.ModTime()})
	} else {
		s.cache.Delete(key)
		s.endSelfWrite(key, selfWrite{})
	}
	return nil
}

// Remove deletes key. Removing an absent key succeeds.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	path, err := s.keyPath(key)
	if err != nil {
		return err
	}

	unlock, err := s.lock.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire storage lock: %w", err)
	}
	defer unlock()

	if s.config.Logger != nil {
		s.config.Logger.Debug("removing key", "key", key)
	}

	s.cache.Delete(key)
	s.beginSelfWrite(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.endSelfWrite(key, selfWrite{})
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	s.endSelfWrite(key, selfWrite{removed: true})
	return nil
}

// Keys lists every key stored in the directory.
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() || !validKey(e.Name()) {
			continue
		}
		keys = append(keys, e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Storage) keyPath(key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.Path, key), nil
}

// validKey accepts plain file names that are neither hidden nor temporary.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, ".") || strings.HasPrefix(key, TempFilePrefix) {
		return false
	}
	return !strings.ContainsAny(key, `/\`)
}

// selfWrite remembers the last change this Storage made to a key.
type selfWrite struct {
	pending bool
	removed bool
	mtime   time.Time
}

func (s *Storage) beginSelfWrite(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selfWrites[key] = selfWrite{pending: true}
}

// endSelfWrite records the outcome. A zero selfWrite forgets the key.
func (s *Storage) endSelfWrite(key string, w selfWrite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !w.removed && w.mtime.IsZero() {
		delete(s.selfWrites, key)
		return
	}
	s.selfWrites[key] = w
	s.writes++
}

// isSelfWrite reports whether the current state of key was produced by this
// Storage, including a write still in flight.
func (s *Storage) isSelfWrite(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.selfWrites[key]
	if !ok {
		return false
	}
	if w.pending {
		return true
	}

	info, err := os.Stat(filepath.Join(s.Path, key))
	switch {
	case err != nil && w.removed:
		return true
	case err == nil && !w.removed && info.ModTime().Equal(w.mtime):
		return true
	}
	delete(s.selfWrites, key)
	return false
}

var _ core.Storage = (*Storage)(nil)
var _ core.Lister = (*Storage)(nil)
var _ core.Watchable = (*Storage)(nil)
