// Package sqlite stores the note collection in a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/aretw0/introspection"

	"github.com/aretw0/vidnote/pkg/core"
)

//go:embed schema.sql
var schemaSQL string

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path     string
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository. Store replaces every row inside one transaction.
type Repository struct {
	Path   string
	config Config

	mu sync.Mutex
	db *sql.DB
}

// NewRepository creates a repository for the database at config.Path.
// The connection is opened by Initialize.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{Path: config.Path, config: config}
}

// Initialize opens the database and applies the schema.
// In read-only mode an absent database is not an error: the connection is opened
// by the first Load that finds the file, and until then the store is empty.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db != nil {
		return nil
	}

	if r.config.ReadOnly {
		_, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			r.config.Logger.Debug("database not found, starting empty", "path", r.Path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to stat database: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(r.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", r.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if !r.config.ReadOnly {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			db.Close()
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	r.db = db
	return nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Repository) handle(ctx context.Context) (*sql.DB, error) {
	if err := r.Initialize(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db, nil
}

// Load returns every note ordered by insertion position.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	if r.config.ReadOnly {
		if _, err := os.Stat(r.Path); os.IsNotExist(err) {
			return []core.Note{}, nil
		}
	}
	db, err := r.handle(ctx)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return []core.Note{}, nil
	}

	rows, err := db.QueryContext(ctx, `SELECT id, url, prompt, content, tags, created_at FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := []core.Note{}
	for rows.Next() {
		var (
			n       core.Note
			tags    string
			created string
		)
		if err := rows.Scan(&n.ID, &n.SourceURL, &n.Prompt, &n.Content, &tags, &created); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return nil, fmt.Errorf("invalid tags for note %s: %w", n.ID, err)
		}
		n.Tags = core.NormalizeTags(n.Tags)
		if n.CreatedAt, err = core.ParseTimestamp(created); err != nil {
			return nil, fmt.Errorf("note %s: %w", n.ID, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.config.Logger.Debug("notes loaded", "path", r.Path, "count", len(notes))
	return notes, nil
}

// Store replaces the collection in a single transaction.
func (r *Repository) Store(ctx context.Context, notes []core.Note) (err error) {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	db, err := r.handle(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notes (position, id, url, prompt, content, tags, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		encoded, mErr := json.Marshal(tags)
		if mErr != nil {
			err = mErr
			return fmt.Errorf("failed to encode tags for note %s: %w", n.ID, err)
		}
		if _, err = stmt.ExecContext(ctx, i, n.ID, n.SourceURL, n.Prompt, n.Content, string(encoded), n.CreatedAt.String()); err != nil {
			return fmt.Errorf("failed to insert note %s: %w", n.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notes: %w", err)
	}
	r.config.Logger.Debug("notes stored", "path", r.Path, "count", len(notes))
	return nil
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path     string `json:"path"`
	Open     bool   `json:"open"`
	ReadOnly bool   `json:"read_only"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RepositoryState{Path: r.Path, Open: r.db != nil, ReadOnly: r.config.ReadOnly}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite"
}

var _ core.Repository = (*Repository)(nil)
var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
