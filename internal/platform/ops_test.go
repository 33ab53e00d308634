package platform

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vidnote/pkg/adapters/fs"
	"github.com/aretw0/vidnote/pkg/adapters/sqlite"
	"github.com/aretw0/vidnote/pkg/core"
)

type memRepo struct{ notes []core.Note }

func (m *memRepo) Load(context.Context) ([]core.Note, error) { return m.notes, nil }
func (m *memRepo) Store(_ context.Context, n []core.Note) error { m.notes = n; return nil }
func (m *memRepo) Initialize(context.Context) error { return nil }

type lineSerializer struct{}

func (lineSerializer) Parse(io.Reader) ([]core.Note, error) { return nil, errors.New("unused") }
func (lineSerializer) Serialize([]core.Note) ([]byte, error) { return []byte("\n"), nil }

func TestInit(t *testing.T) {
	t.Run("FS Document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sub", "notes.yaml")
		repo, err := Init(path)
		require.NoError(t, err)

		fsRepo, ok := repo.(*fs.Repository)
		require.True(t, ok)
		assert.Equal(t, path, fsRepo.Path)
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("FS Directory", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := Init(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, fs.DefaultFilename), repo.(*fs.Repository).Path)
	})

	t.Run("SQLite", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := Init(dir, WithAdapter("sqlite"))
		require.NoError(t, err)
		sq, ok := repo.(*sqlite.Repository)
		require.True(t, ok)
		defer sq.Close()
		assert.Equal(t, filepath.Join(dir, "notes.db"), sq.Path)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := Init(t.TempDir(), WithAdapter("s3"))
		assert.EqualError(t, err, "unknown adapter: s3")
	})

	t.Run("Injected Repository", func(t *testing.T) {
		mem := &memRepo{}
		repo, err := Init("ignored", WithRepository(mem))
		require.NoError(t, err)
		assert.Same(t, mem, repo)
	})

	t.Run("Custom Serializer", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.jsonl")
		_, err := Init(path, WithSerializer("jsonl", lineSerializer{}))
		require.NoError(t, err)

		_, err = Init(path, WithSerializer(".jsonl", "not a serializer"))
		assert.Error(t, err)
	})

	t.Run("Must Exist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "notes.json")
		_, err := Init(path, WithMustExist(true))
		assert.Error(t, err)
	})
}

func TestNew_ReadOnlyMissingStore(t *testing.T) {
	ctx := context.Background()
	for _, adapter := range []string{"fs", "sqlite"} {
		t.Run(adapter, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "notes.json")
			if adapter == "sqlite" {
				path = filepath.Join(filepath.Dir(path), "notes.db")
			}

			svc, err := New(path, WithAdapter(adapter), WithReadOnly(true), WithDevSafety(false))
			require.NoError(t, err)
			assert.Empty(t, svc.Load(ctx))
			assert.Empty(t, svc.Notes(ctx))
			_, err = svc.Create(ctx, core.NewNote{SourceURL: "https://youtu.be/dQw4w9WgXcQ"})
			assert.ErrorIs(t, err, core.ErrReadOnly)
		})
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")

	svc, err := New(path, WithURLCheck(func(u string) bool { return u == "https://youtu.be/dQw4w9WgXcQ" }))
	require.NoError(t, err)

	_, err = svc.Create(ctx, core.NewNote{SourceURL: "https://example.com"})
	assert.ErrorIs(t, err, core.ErrValidation)

	note, err := svc.Create(ctx, core.NewNote{SourceURL: "https://youtu.be/dQw4w9WgXcQ", Prompt: "p", Content: "c"})
	require.NoError(t, err)

	ro, err := New(path, WithReadOnly(true))
	require.NoError(t, err)
	notes := ro.Load(ctx)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].ID)
	assert.ErrorIs(t, ro.Delete(ctx, note.ID), core.ErrReadOnly)
}
