package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/log"
	"todo/internal/storage"
	"todo/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newRepo(t *testing.T, path string) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath:  path,
		Logger:  log.Noop,
		TimeNow: func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, filepath.Join(t.TempDir(), "test.db"))

	all, err := repo.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.Todo{}, all)

	first, err := repo.CreateTodo(ctx, "buy milk")
	require.NoError(t, err)
	second, err := repo.CreateTodo(ctx, "walk dog")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, first.CreatedAt)

	got, err := repo.GetTodo(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, *first, *got)

	updated, err := repo.UpdateTodo(ctx, first.ID, "buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "buy oat milk", updated.Text)

	all, err = repo.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{first.ID, second.ID}, []string{all[0].ID, all[1].ID})

	require.NoError(t, repo.DeleteTodo(ctx, first.ID))

	_, err = repo.GetTodo(ctx, first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.UpdateTodo(ctx, first.ID, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteTodo(ctx, first.ID), storage.ErrNotFound)
}

func TestRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "todos.db")

	repo := newRepo(t, path)
	created, err := repo.CreateTodo(ctx, "buy milk")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened := newRepo(t, path)
	all, err := reopened.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
}
