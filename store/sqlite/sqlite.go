package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/smallnest/nsdebug/store"
)

// SqliteNamespaceStore implements store.NamespaceStore using SQLite
type SqliteNamespaceStore struct {
	db        *sql.DB
	tableName string
}

var _ store.NamespaceStore = (*SqliteNamespaceStore)(nil)

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "namespace_snapshots"
}

// NewSqliteNamespaceStore opens the database and creates the schema
func NewSqliteNamespaceStore(opts SqliteOptions) (*SqliteNamespaceStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "namespace_snapshots"
	}

	s := &SqliteNamespaceStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteNamespaceStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			namespaces TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			version INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteNamespaceStore) Close() error {
	return s.db.Close()
}

// Save stores a snapshot
func (s *SqliteNamespaceStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, namespaces, timestamp, version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			namespaces = excluded.namespaces,
			timestamp = excluded.timestamp,
			version = excluded.version
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.Namespaces,
		snapshot.Timestamp,
		snapshot.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save namespaces: %w", err)
	}
	return nil
}

// Load returns the newest snapshot
func (s *SqliteNamespaceStore) Load(ctx context.Context) (*store.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, namespaces, timestamp, version
		FROM %s
		ORDER BY timestamp DESC, version DESC, rowid DESC
		LIMIT 1
	`, s.tableName)

	var snap store.Snapshot
	err := s.db.QueryRowContext(ctx, query).Scan(
		&snap.ID,
		&snap.Namespaces,
		&snap.Timestamp,
		&snap.Version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load namespaces: %w", err)
	}
	return &snap, nil
}

// History returns snapshots newest first
func (s *SqliteNamespaceStore) History(ctx context.Context, limit int) ([]*store.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, namespaces, timestamp, version
		FROM %s
		ORDER BY timestamp DESC, version DESC, rowid DESC
	`, s.tableName)

	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	defer rows.Close()

	snapshots := []*store.Snapshot{}
	for rows.Next() {
		var snap store.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Namespaces, &snap.Timestamp, &snap.Version); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snapshots, nil
}

// Clear removes every snapshot
func (s *SqliteNamespaceStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear namespaces: %w", err)
	}
	return nil
}
