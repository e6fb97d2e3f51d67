package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/smallnest/nsdebug/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SqliteNamespaceStore {
	t.Helper()
	s, err := NewSqliteNamespaceStore(SqliteOptions{
		Path: filepath.Join(t.TempDir(), "debug.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqliteNamespaceStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	first := store.NewSnapshot("api:*", 1)
	second := store.NewSnapshot("api:*,-api:internal", 2)
	second.Timestamp = first.Timestamp.Add(time.Second)
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Equal(t, "api:*,-api:internal", loaded.Namespaces)
	assert.Equal(t, 2, loaded.Version)
	assert.True(t, second.Timestamp.Equal(loaded.Timestamp))

	history, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	history, err = s.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	history, err = s.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSqliteNamespaceStore_SaveSameIDUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := store.NewSnapshot("a", 1)
	require.NoError(t, s.Save(ctx, snap))
	snap.Namespaces = "b"
	snap.Version = 2
	require.NoError(t, s.Save(ctx, snap))

	history, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "b", history[0].Namespaces)
	assert.Equal(t, 2, history[0].Version)
}

func TestSqliteNamespaceStore_CustomTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.db")
	ctx := context.Background()

	a, err := NewSqliteNamespaceStore(SqliteOptions{Path: path, TableName: "team_a"})
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSqliteNamespaceStore(SqliteOptions{Path: path, TableName: "team_b"})
	require.NoError(t, err)
	defer b.Close()

	for i := 1; i <= 3; i++ {
		require.NoError(t, a.Save(ctx, store.NewSnapshot(fmt.Sprintf("a%d", i), i)))
	}

	history, err := a.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, err = b.Load(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSqliteNamespaceStore_SameTimestampNewestVersionWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newer := store.NewSnapshot("b", 2)
	older := store.NewSnapshot("a", 1)
	older.Timestamp = newer.Timestamp
	require.NoError(t, s.Save(ctx, newer))
	require.NoError(t, s.Save(ctx, older))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Version)

	history, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "b", history[0].Namespaces)
	assert.Equal(t, "a", history[1].Namespaces)
}
