package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Format        string     `json:"format"`
	ReadOnly      bool       `json:"read_only"`
	WatcherActive bool       `json:"watcher_active"`
	LastWrite     *time.Time `json:"last_write,omitempty"`
	LastCount     int        `json:"last_write_count"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		Format:        formatName(r.serializer),
		ReadOnly:      r.config.ReadOnly,
		WatcherActive: r.watcherActive,
		LastWrite:     r.lastWrite,
		LastCount:     r.lastCount,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-document"
}

func formatName(s Serializer) string {
	switch s.(type) {
	case *JSONSerializer:
		return "json"
	case *YAMLSerializer:
		return "yaml"
	default:
		return "custom"
	}
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
