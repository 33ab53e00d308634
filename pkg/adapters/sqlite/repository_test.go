package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vidnote/pkg/adapters/sqlite"
	"github.com/aretw0/vidnote/pkg/core"
)

func setupRepo(t *testing.T) (*sqlite.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.db")
	repo := sqlite.NewRepository(sqlite.Config{Path: path})
	require.NoError(t, repo.Initialize(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func TestRepository_RoundTrip(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()

	created := core.NewTimestamp(time.Date(2024, 5, 1, 10, 30, 0, 5, time.UTC))
	notes := []core.Note{
		{ID: "b", SourceURL: "u2", Prompt: "p", Content: "second inserted first", Tags: []string{"x"}, CreatedAt: created},
		{ID: "a", SourceURL: "u1", Prompt: "p", Content: "c", Tags: []string{}, CreatedAt: created},
	}
	require.NoError(t, repo.Store(ctx, notes))
	require.NoError(t, repo.Close())

	reopened := sqlite.NewRepository(sqlite.Config{Path: path})
	defer reopened.Close()
	got, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes, got, "store order must be preserved")
}

func TestRepository_EmptyDatabase(t *testing.T) {
	repo, _ := setupRepo(t)
	notes, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestRepository_StoreReplaces(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	svc := core.NewService(repo)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, core.NewNote{SourceURL: "u", Prompt: "p", Content: "c", Tags: core.ParseTags("a, b")})
		require.NoError(t, err)
	}
	notes, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 5)

	require.NoError(t, svc.Delete(ctx, notes[2].ID))
	notes, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 4)

	require.NoError(t, svc.ClearAll(ctx))
	assert.Empty(t, core.NewService(repo).Load(ctx))
}

func TestRepository_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	repo := sqlite.NewRepository(sqlite.Config{Path: path, ReadOnly: true})
	require.NoError(t, repo.Initialize(context.Background()))
	assert.False(t, repo.State().(sqlite.RepositoryState).Open)

	notes, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
	assert.ErrorIs(t, repo.Store(context.Background(), nil), core.ErrReadOnly)
}

func TestRepository_State(t *testing.T) {
	repo, path := setupRepo(t)
	state := repo.State().(sqlite.RepositoryState)
	assert.Equal(t, path, state.Path)
	assert.True(t, state.Open)
	assert.Equal(t, "sqlite", repo.ComponentType())
}
