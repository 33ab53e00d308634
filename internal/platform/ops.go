package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/vidnote/pkg/adapters/fs"
	"github.com/aretw0/vidnote/pkg/adapters/sqlite"
	"github.com/aretw0/vidnote/pkg/core"
)

// Init prepares the storage adapter for the given location.
// The 'uri' argument is adapter-specific (document path for 'fs', database file for 'sqlite').
//
// It returns the configured core.Repository.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	// 1. Check for injected repository
	if o.repository != nil {
		return o.repository, nil
	}

	// 2. Initialize based on Adapter
	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	case "sqlite":
		repo, err = initSQLite(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	// 3. Run Initialization
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// resolvePath applies the dev sandbox to the directory part of uri and keeps the file name.
func resolvePath(uri string, o *options) (string, bool) {
	tempDir, _ := o.config["temp_dir"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Bypass Safety if:
	// 1. ReadOnly is active (inherently safe)
	// 2. User explicitly disabled DevSafety
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)

	if uri == "" {
		uri = "."
	}
	dir, file := uri, ""
	if filepath.Ext(uri) != "" {
		dir, file = filepath.Dir(uri), filepath.Base(uri)
	}
	resolved := ResolveStorePath(dir, useTemp)
	if file != "" {
		resolved = filepath.Join(resolved, file)
	}

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", uri, "resolved_path", resolved)
	} else if IsDevRun() && bypassSafety && o.logger != nil {
		if isReadOnly {
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		} else {
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		}
	}
	return resolved, useTemp
}

// initFS handles the initialization logic for the single-document adapter.
func initFS(path string, o *options) (core.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	resolvedPath, useTemp := resolvePath(path, o)

	serializers := make(map[string]fs.Serializer, len(o.serializers))
	for ext, s := range o.serializers {
		serializer, ok := s.(fs.Serializer)
		if !ok {
			if o.logger != nil {
				o.logger.Warn("invalid serializer type ignored", "ext", ext, "expected", "fs.Serializer")
			}
			return nil, fmt.Errorf("serializer for %s must implement fs.Serializer", ext)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		serializers[ext] = serializer
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		MustExist:    mustExist && !autoInit && !useTemp,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
		Serializers:  serializers,
	})
}

// initSQLite handles the initialization logic for the SQLite adapter.
func initSQLite(path string, o *options) (core.Repository, error) {
	isReadOnly, _ := o.config["read_only"].(bool)
	if filepath.Ext(path) == "" {
		path = filepath.Join(path, "notes.db")
	}
	resolvedPath, _ := resolvePath(path, o)

	return sqlite.NewRepository(sqlite.Config{
		Path:     resolvedPath,
		ReadOnly: isReadOnly,
		Logger:   o.logger,
	}), nil
}
