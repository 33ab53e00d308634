package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/vidnote"
	"github.com/aretw0/vidnote/pkg/core"
)

// resolveStore picks the store location: flag, then $VIDNOTE_STORE, then the
// nearest store above the working directory, then ./notes.json.
func resolveStore() string {
	if storePath != "" {
		return storePath
	}
	if env := os.Getenv("VIDNOTE_STORE"); env != "" {
		return env
	}
	wd, err := os.Getwd()
	if err != nil {
		return "notes.json"
	}
	if root, err := vidnote.FindStoreRoot(wd); err == nil {
		if path, ok := vidnote.FindStore(root); ok {
			return path
		}
	}
	return filepath.Join(wd, "notes.json")
}

func adapterFor(path string) string {
	if adapter != "" {
		return adapter
	}
	if filepath.Ext(path) == ".db" {
		return "sqlite"
	}
	return "fs"
}

func storeOptions(path string, readOnly bool) []vidnote.Option {
	return []vidnote.Option{
		vidnote.WithAdapter(adapterFor(path)),
		vidnote.WithAutoInit(!readOnly),
		vidnote.WithReadOnly(readOnly),
		vidnote.WithLogger(slog.Default()),
		vidnote.WithWatcherErrorHandler(func(err error) {
			slog.Error("watcher failed", "error", err)
		}),
	}
}

func openStore(readOnly bool) *core.Service {
	path := resolveStore()
	svc, err := vidnote.New(path, storeOptions(path, readOnly)...)
	if err != nil {
		fatal("Failed to open note store", err)
	}
	return svc
}
