package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// DefaultLockTimeout bounds how long a write waits for the storage lock.
	DefaultLockTimeout = 5 * time.Second

	// DefaultStaleLockAge is the age after which a lock file is considered
	// abandoned. A write holds the lock for milliseconds, so a lock this old
	// belongs to a process that died before releasing it.
	DefaultStaleLockAge = 10 * time.Second
)

// fileLock is a cross-process lock based on O_EXCL file creation. It keeps
// the CLI and a running server from interleaving writes to the same key.
// The file holds the owner's PID for whoever inspects a stuck directory.
type fileLock struct {
	path       string
	timeout    time.Duration
	staleAfter time.Duration
	onBreak    func(age time.Duration)
}

func newFileLock(path string, timeout time.Duration) *fileLock {
	return &fileLock{path: path, timeout: timeout, staleAfter: DefaultStaleLockAge}
}

// ErrLockTimeout is returned when the lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for storage lock")

// Lock blocks until the lock is acquired, ctx is done or the timeout expires.
// A non-positive timeout waits for ctx only. It returns the unlock function.
func (l *fileLock) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	var deadline <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0666)
		if err == nil {
			_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
			_ = f.Close()
			return func() {
				_ = os.Remove(l.path)
			}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if l.breakStale() {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, ErrLockTimeout
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// breakStale removes the lock file when it is older than staleAfter. The
// file is stat'ed twice so a lock re-created by another process in between
// is left alone.
func (l *fileLock) breakStale() bool {
	if l.staleAfter <= 0 {
		return false
	}
	info, err := os.Stat(l.path)
	if err != nil {
		// Released in the meantime: retry right away.
		return os.IsNotExist(err)
	}
	age := time.Since(info.ModTime())
	if age < l.staleAfter {
		return false
	}
	again, err := os.Stat(l.path)
	if err != nil || !os.SameFile(info, again) || !again.ModTime().Equal(info.ModTime()) {
		return err != nil && os.IsNotExist(err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return false
	}
	if l.onBreak != nil {
		l.onBreak(age)
	}
	return true
}
