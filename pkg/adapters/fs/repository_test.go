package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vidnote/pkg/adapters/fs"
	"github.com/aretw0/vidnote/pkg/core"
)

func setupRepo(t *testing.T, name string) (*fs.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	repo, err := fs.NewRepository(fs.Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, path
}

func sampleNotes() []core.Note {
	created := core.NewTimestamp(time.Date(2024, 5, 1, 10, 30, 0, 123456000, time.UTC))
	return []core.Note{
		{ID: "a", SourceURL: "https://youtu.be/dQw4w9WgXcQ", Prompt: "Summarize", Content: "Summary: <b>bold</b> & more", Tags: []string{"x", "y"}, CreatedAt: created},
		{ID: "b", SourceURL: "https://www.youtube.com/watch?v=aaaaaaaaaaa", Prompt: "List topics", Content: "multi\nline", Tags: []string{}, CreatedAt: created},
	}
}

func TestRepository_MissingDocumentIsEmpty(t *testing.T) {
	repo, _ := setupRepo(t, "notes.json")

	notes, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestRepository_RoundTrip(t *testing.T) {
	for _, name := range []string{"notes.json", "notes.yaml", "notes.yml"} {
		t.Run(name, func(t *testing.T) {
			repo, path := setupRepo(t, name)
			ctx := context.Background()

			require.NoError(t, repo.Store(ctx, sampleNotes()))
			_, err := os.Stat(path)
			require.NoError(t, err)

			// A fresh repository simulates a process restart.
			reopened, err := fs.NewRepository(fs.Config{Path: path})
			require.NoError(t, err)
			got, err := reopened.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleNotes(), got)
		})
	}
}

func TestRepository_DocumentFormat(t *testing.T) {
	repo, path := setupRepo(t, "notes.json")
	require.NoError(t, repo.Store(context.Background(), sampleNotes()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{`"id"`, `"url"`, `"prompt"`, `"content"`, `"tags"`, `"created_at": "2024-05-01T10:30:00.123456Z"`} {
		assert.Contains(t, string(data), field)
	}
}

func TestRepository_LegacyDocument(t *testing.T) {
	repo, path := setupRepo(t, "notes.json")
	legacy := `[{"id": "1", "url": "https://youtu.be/dQw4w9WgXcQ", "prompt": "p", "content": "c",
	  "tags": [" go ", "", "go"], "created_at": "2024-08-01T09:15:42.512345"}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	notes, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"go"}, notes[0].Tags)
	assert.True(t, notes[0].CreatedAt.Equal(time.Date(2024, 8, 1, 9, 15, 42, 512345000, time.UTC)))
}

func TestRepository_CorruptDocument(t *testing.T) {
	repo, path := setupRepo(t, "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := repo.Load(context.Background())
	assert.Error(t, err)

	// The store degrades to empty instead of failing.
	svc := core.NewService(repo)
	assert.Empty(t, svc.Load(context.Background()))
}

func TestRepository_CorruptDocumentKeptAsBackup(t *testing.T) {
	repo, path := setupRepo(t, "notes.json")
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	svc := core.NewService(repo)
	assert.Empty(t, svc.Load(ctx))

	_, err := svc.Create(ctx, core.NewNote{SourceURL: "u", Prompt: "p", Content: "c"})
	require.NoError(t, err)

	backup, err := os.ReadFile(path + fs.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
	assert.Len(t, core.NewService(repo).Load(ctx), 1)

	t.Run("Existing Backup Is Not Overwritten", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("still broken"), 0644))
		target, err := repo.Backup(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, path+fs.BackupSuffix, target)

		first, err := os.ReadFile(path + fs.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(first))
		second, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "still broken", string(second))
	})

	t.Run("Missing Document", func(t *testing.T) {
		require.NoError(t, os.Remove(path))
		target, err := repo.Backup(ctx)
		require.NoError(t, err)
		assert.Empty(t, target)
	})
}

func TestRepository_EmptyFile(t *testing.T) {
	for _, name := range []string{"notes.json", "notes.yaml"} {
		repo, path := setupRepo(t, name)
		require.NoError(t, os.WriteFile(path, nil, 0644))

		notes, err := repo.Load(context.Background())
		require.NoError(t, err, name)
		assert.Empty(t, notes, name)
	}
}

func TestRepository_DirectoryPath(t *testing.T) {
	dir := t.TempDir()
	repo, err := fs.NewRepository(fs.Config{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, fs.DefaultFilename), repo.Path)
}

func TestRepository_UnsupportedFormat(t *testing.T) {
	_, err := fs.NewRepository(fs.Config{Path: filepath.Join(t.TempDir(), "notes.csv")})
	assert.Error(t, err)
}

func TestRepository_ReadOnly(t *testing.T) {
	_, path := setupRepo(t, "notes.json")
	repo, err := fs.NewRepository(fs.Config{Path: path, ReadOnly: true})
	require.NoError(t, err)

	err = repo.Store(context.Background(), sampleNotes())
	assert.ErrorIs(t, err, core.ErrReadOnly)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRepository_MustExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "notes.json")
	repo, err := fs.NewRepository(fs.Config{Path: path, MustExist: true})
	require.NoError(t, err)
	assert.Error(t, repo.Initialize(context.Background()))
}

func TestRepository_WriteFailureKeepsPreviousDocument(t *testing.T) {
	repo, path := setupRepo(t, "notes.json")
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, sampleNotes()))

	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })
	if f, err := os.CreateTemp(dir, "probe"); err == nil {
		// Running as root: permissions are not enforced.
		f.Close()
		os.Remove(f.Name())
		t.Skip("directory permissions not enforced")
	}

	svc := core.NewService(repo)
	require.Len(t, svc.Load(ctx), 2)
	err := svc.ClearAll(ctx)
	assert.ErrorIs(t, err, core.ErrPersistence)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleNotes(), got)
	assert.Len(t, svc.Notes(ctx), 2)
}

func TestService_OverFileDocument(t *testing.T) {
	repo, _ := setupRepo(t, "notes.json")
	ctx := context.Background()
	svc := core.NewService(repo)

	created, err := svc.Create(ctx, core.NewNote{
		SourceURL: "https://youtu.be/dQw4w9WgXcQ",
		Prompt:    "Summarize the main points of this video.",
		Content:   "Summary: ...",
		Tags:      core.ParseTags("  x , ,y "),
	})
	require.NoError(t, err)

	loaded := core.NewService(repo).Load(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, created, loaded[0])

	for i := 0; i < 4; i++ {
		_, err := svc.Create(ctx, core.NewNote{SourceURL: "u", Prompt: "p", Content: "c"})
		require.NoError(t, err)
	}
	require.Len(t, core.NewService(repo).Load(ctx), 5)

	require.NoError(t, svc.ClearAll(ctx))
	assert.Empty(t, core.NewService(repo).Load(ctx))
}

func TestRepository_State(t *testing.T) {
	repo, path := setupRepo(t, "notes.yaml")
	require.NoError(t, repo.Store(context.Background(), sampleNotes()))

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, "yaml", state.Format)
	assert.Equal(t, 2, state.LastCount)
	assert.NotNil(t, state.LastWrite)
	assert.Equal(t, "fs-document", repo.ComponentType())

	svcState, ok := core.NewService(repo).State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, "fs-document", svcState.RepositoryType)
}
