package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/smallnest/nsdebug/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresNamespaceStore implements store.NamespaceStore using PostgreSQL.
// Every save is a row; nothing is pruned.
type PostgresNamespaceStore struct {
	pool      DBPool
	tableName string
}

var _ store.NamespaceStore = (*PostgresNamespaceStore)(nil)

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "namespace_snapshots"
}

// NewPostgresNamespaceStore creates a new Postgres namespace store
func NewPostgresNamespaceStore(ctx context.Context, opts PostgresOptions) (*PostgresNamespaceStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return NewPostgresNamespaceStoreWithPool(pool, opts.TableName), nil
}

// NewPostgresNamespaceStoreWithPool creates a store on an existing pool.
// Useful for testing with mocks
func NewPostgresNamespaceStoreWithPool(pool DBPool, tableName string) *PostgresNamespaceStore {
	if tableName == "" {
		tableName = "namespace_snapshots"
	}
	return &PostgresNamespaceStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresNamespaceStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			namespaces TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			version INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_timestamp ON %s (timestamp);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresNamespaceStore) Close() {
	s.pool.Close()
}

// Save stores a snapshot
func (s *PostgresNamespaceStore) Save(ctx context.Context, snapshot *store.Snapshot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, namespaces, timestamp, version)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			namespaces = EXCLUDED.namespaces,
			timestamp = EXCLUDED.timestamp,
			version = EXCLUDED.version
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query,
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
func (s *PostgresNamespaceStore) Load(ctx context.Context) (*store.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, namespaces, timestamp, version
		FROM %s
		ORDER BY timestamp DESC, version DESC
		LIMIT 1
	`, s.tableName)

	var snap store.Snapshot
	err := s.pool.QueryRow(ctx, query).Scan(
		&snap.ID,
		&snap.Namespaces,
		&snap.Timestamp,
		&snap.Version,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load namespaces: %w", err)
	}
	return &snap, nil
}

// History returns snapshots newest first
func (s *PostgresNamespaceStore) History(ctx context.Context, limit int) ([]*store.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, namespaces, timestamp, version
		FROM %s
		ORDER BY timestamp DESC, version DESC
	`, s.tableName)

	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
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
func (s *PostgresNamespaceStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to clear namespaces: %w", err)
	}
	return nil
}
