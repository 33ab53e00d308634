package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/vidnote/pkg/core"
)

// DefaultFilename is used when the configured path is a directory.
const DefaultFilename = "notes.json"

// Repository implements core.Repository as a single JSON or YAML document on disk.
type Repository struct {
	// Path is the absolute or relative path of the note document.
	Path string

	config     Config
	serializer Serializer

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	lastCount     int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	// Path is the note document, or a directory that will hold DefaultFilename.
	Path         string
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error)
	// Serializers overrides or extends DefaultSerializers, keyed by extension (".json").
	Serializers map[string]Serializer
}

// NewRepository creates a new filesystem-backed repository.
// The document format is chosen from the file extension.
func NewRepository(config Config) (*Repository, error) {
	path := config.Path
	if path == "" {
		path = DefaultFilename
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFilename)
	} else if filepath.Ext(path) == "" {
		path = filepath.Join(path, DefaultFilename)
	}

	serializers := DefaultSerializers()
	for ext, s := range config.Serializers {
		serializers[ext] = s
	}
	ext := strings.ToLower(filepath.Ext(path))
	serializer, ok := serializers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported note document format %q", ext)
	}

	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	config.Path = path

	return &Repository{
		Path:       path,
		config:     config,
		serializer: serializer,
	}, nil
}

// Initialize ensures the directory holding the document exists.
func (r *Repository) Initialize(ctx context.Context) error {
	dir := filepath.Dir(r.Path)
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("store directory does not exist: %s", dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", dir)
		}
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// Load reads the document. A missing document is an empty collection.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	data, err := os.ReadFile(r.Path)
	if os.IsNotExist(err) {
		r.config.Logger.Debug("note document not found, starting empty", "path", r.Path)
		return []core.Note{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.Path, err)
	}

	notes, err := r.serializer.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.Path, err)
	}
	r.config.Logger.Debug("notes loaded", "path", r.Path, "count", len(notes))
	return notes, nil
}

// Store rewrites the whole document atomically.
func (r *Repository) Store(ctx context.Context, notes []core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.serializer.Serialize(notes)
	if err != nil {
		return fmt.Errorf("failed to serialize notes: %w", err)
	}
	if err := writeFileAtomic(r.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.recordWrite(len(notes))
	r.config.Logger.Debug("notes stored", "path", r.Path, "count", len(notes))
	return nil
}

// BackupSuffix is appended to the document name by Backup.
const BackupSuffix = ".bak"

// Backup renames the document to <path>.bak, or to <path>.<timestamp>.bak when that
// name is taken. A missing document needs no backup and returns "".
func (r *Repository) Backup(ctx context.Context) (string, error) {
	if r.config.ReadOnly {
		return "", core.ErrReadOnly
	}
	if _, err := os.Lstat(r.Path); os.IsNotExist(err) {
		return "", nil
	}

	target := r.Path + BackupSuffix
	if _, err := os.Lstat(target); err == nil {
		target = r.Path + "." + time.Now().UTC().Format("20060102T150405.000000000") + BackupSuffix
	}
	if err := os.Rename(r.Path, target); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", r.Path, err)
	}
	r.config.Logger.Warn("note document moved aside", "path", r.Path, "backup", target)
	return target, nil
}

func (r *Repository) recordWrite(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastWrite = &now
	r.lastCount = count
}

var _ core.Repository = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
var _ core.Backupable = (*Repository)(nil)
