package vidnote

import (
	"log/slog"

	"github.com/aretw0/vidnote/internal/platform"
	"github.com/aretw0/vidnote/pkg/core"
	"github.com/aretw0/vidnote/pkg/videourl"
)

// Version is the release of the library and CLI.
const Version = "0.3.0"

// --- Types ---

// Note is a public alias for the stored note.
type Note = core.Note

// Service is a public alias for the note store.
type Service = core.Service

// --- Configuration ---

// Option defines a functional option for configuring the note store.
type Option = platform.Option

// WithAutoInit creates the store directory when it is missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSerializer registers a document serializer for a file extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// WithReadOnly rejects every mutation with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temp-dir sandbox applied under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for document watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithURLCheck overrides the source URL guard applied on Create.
func WithURLCheck(check func(string) bool) Option {
	return platform.WithURLCheck(check)
}

// --- Factory ---

// New creates a note store. Source URLs must look like video links unless
// WithURLCheck says otherwise.
func New(path string, opts ...Option) (*core.Service, error) {
	opts = append([]Option{platform.WithURLCheck(videourl.IsValidVideoURL)}, opts...)
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual store directory based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindStoreRoot recursively looks upwards for a directory holding a note store.
func FindStoreRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// FindStore returns the store document inside dir, if any.
func FindStore(dir string) (string, bool) {
	return platform.FindStore(dir)
}
