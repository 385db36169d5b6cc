package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/pph/pkg/adapters/fs"
	"github.com/aretw0/pph/pkg/adapters/memory"
	"github.com/aretw0/pph/pkg/adapters/sqlite"
	"github.com/aretw0/pph/pkg/core"
)

// DatabaseFile is the SQLite file created inside a data directory.
const DatabaseFile = "pph.db"

// Open creates and initializes the storage selected by the options.
// The 'uri' argument is adapter-specific: a directory for "fs", a directory
// or database file for "sqlite", ignored for "memory".
func Open(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return open(uri, o)
}

func open(uri string, o *options) (core.Storage, error) {
	// 1. Check for injected storage
	if o.storage != nil {
		return o.storage, nil
	}

	// 2. Build the adapter
	var storage core.Storage
	var err error

	switch o.adapter {
	case AdapterFS, "":
		storage, err = initFS(uri, o)
	case AdapterSQLite:
		storage, err = initSQLite(uri, o)
	case AdapterMemory:
		storage = memory.New()
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	// 3. Run Initialization
	if err := storage.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return storage, nil
}

// resolvePath applies the dev sandbox rules to a user path.
func resolvePath(path string, o *options) string {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only access is inherently safe.
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	if o.logger != nil && useTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (core.Storage, error) {
	mustExist, _ := o.config["must_exist"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)
	lockTimeout, _ := o.config["lock_timeout"].(time.Duration)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	isReadOnly, _ := o.config["read_only"].(bool)

	return fs.NewStorage(fs.Config{
		Path:         resolvePath(path, o),
		SystemDir:    systemDir,
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		LockTimeout:  lockTimeout,
		EventBuffer:  eventBuffer,
		ErrorHandler: errorHandler,
	}), nil
}

// initSQLite opens <dir>/pph.db, or the given file when uri has an extension.
func initSQLite(uri string, o *options) (core.Storage, error) {
	isReadOnly, _ := o.config["read_only"].(bool)

	dsn := uri
	if dsn != ":memory:" {
		dsn = resolvePath(dsn, o)
		if filepath.Ext(dsn) == "" {
			if !isReadOnly {
				if err := ensureDir(dsn); err != nil {
					return nil, err
				}
			}
			dsn = filepath.Join(dsn, DatabaseFile)
		}
	}

	return sqlite.NewStorage(sqlite.Config{
		DSN:      dsn,
		ReadOnly: isReadOnly,
		Logger:   o.logger,
	}), nil
}
