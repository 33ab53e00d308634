package core

import "context"

// Repository defines the contract for the durable note document.
// Adhering to this interface keeps the store independent of the storage
// mechanism (single JSON/YAML file, SQLite, ...).
type Repository interface {
	// Load reads the whole collection in store order.
	// A missing document is an empty collection, not an error.
	Load(ctx context.Context) ([]Note, error)

	// Store replaces the whole collection. Implementations must be all-or-nothing:
	// a reader never observes a half-written document.
	Store(ctx context.Context, notes []Note) error

	// Initialize ensures the underlying storage is ready (e.g., create directories, schema migration).
	Initialize(ctx context.Context) error
}

// Backupable is implemented by repositories that can set an unreadable document aside
// before it is overwritten. Backup returns where the document went.
type Backupable interface {
	Backup(ctx context.Context) (string, error)
}

// Watchable is implemented by repositories that can report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
