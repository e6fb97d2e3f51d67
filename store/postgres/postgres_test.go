package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/smallnest/nsdebug/store"
	"github.com/stretchr/testify/assert"
)

var columns = []string{"id", "namespaces", "timestamp", "version"}

func TestPostgresNamespaceStore_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	snap := &store.Snapshot{
		ID:         "snap-1",
		Namespaces: "api:*,-api:internal",
		Timestamp:  time.Now(),
		Version:    1,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO namespace_snapshots (id, namespaces, timestamp, version)")).
		WithArgs(snap.ID, snap.Namespaces, snap.Timestamp, snap.Version).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, s.Save(context.Background(), snap))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_Save_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "")

	snap := store.NewSnapshot("api:*", 1)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO namespace_snapshots")).
		WithArgs(snap.ID, snap.Namespaces, snap.Timestamp, snap.Version).
		WillReturnError(errors.New("connection reset"))

	err = s.Save(context.Background(), snap)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save namespaces")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	timestamp := time.Now().UTC()
	rows := pgxmock.NewRows(columns).
		AddRow("snap-2", "worker:*", timestamp, 2)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, namespaces, timestamp, version FROM namespace_snapshots ORDER BY timestamp DESC, version DESC LIMIT 1")).
		WillReturnRows(rows)

	loaded, err := s.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "snap-2", loaded.ID)
	assert.Equal(t, "worker:*", loaded.Namespaces)
	assert.Equal(t, 2, loaded.Version)
	assert.True(t, timestamp.Equal(loaded.Timestamp))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_Load_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, namespaces, timestamp, version FROM namespace_snapshots")).
		WillReturnError(pgx.ErrNoRows)

	loaded, err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, loaded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_Load_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, namespaces, timestamp, version FROM namespace_snapshots")).
		WillReturnError(errors.New("database connection failed"))

	loaded, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.Nil(t, loaded)
	assert.Contains(t, err.Error(), "failed to load namespaces")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_History(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	now := time.Now()
	rows := pgxmock.NewRows(columns).
		AddRow("snap-2", "b", now, 2).
		AddRow("snap-1", "a", now.Add(-time.Minute), 1)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, namespaces, timestamp, version FROM namespace_snapshots ORDER BY timestamp DESC, version DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(rows)

	history, err := s.History(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "snap-2", history[0].ID)
	assert.Equal(t, "a", history[1].Namespaces)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_History_Unlimited(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, namespaces, timestamp, version FROM namespace_snapshots ORDER BY timestamp DESC, version DESC")).
		WillReturnRows(pgxmock.NewRows(columns))

	history, err := s.History(context.Background(), 0)
	assert.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_History_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, namespaces, timestamp, version FROM namespace_snapshots")).
		WithArgs(5).
		WillReturnError(errors.New("query failed"))

	history, err := s.History(context.Background(), 5)
	assert.Error(t, err)
	assert.Nil(t, history)
	assert.Contains(t, err.Error(), "failed to list namespaces")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_Clear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM namespace_snapshots")).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	assert.NoError(t, s.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_InitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewPostgresNamespaceStoreWithPool(mock, "custom_table")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS custom_table")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresNamespaceStore_Close(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)

	s := NewPostgresNamespaceStoreWithPool(mock, "namespace_snapshots")
	mock.ExpectClose()
	s.Close()

	assert.NoError(t, mock.ExpectationsWereMet())
}
