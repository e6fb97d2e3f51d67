package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("namespaces not found")

	// ErrWatchUnsupported is returned when a store cannot report changes.
	ErrWatchUnsupported = errors.New("store does not support watching")
)

// DefaultHistoryLimit caps the number of snapshots kept by stores that keep
// a history.
const DefaultHistoryLimit = 100

// Snapshot is one saved enable-string.
type Snapshot struct {
	ID         string    `json:"id"`
	Namespaces string    `json:"namespaces"`
	Timestamp  time.Time `json:"timestamp"`
	Version    int       `json:"version"`
}

// NewSnapshot creates a snapshot with a fresh ID and the current time.
func NewSnapshot(namespaces string, version int) *Snapshot {
	return &Snapshot{
		ID:         uuid.NewString(),
		Namespaces: namespaces,
		Timestamp:  time.Now().UTC(),
		Version:    version,
	}
}

// NamespaceStore persists the enable-string of a registry
type NamespaceStore interface {
	// Save stores a snapshot; it becomes the one returned by Load
	Save(ctx context.Context, snapshot *Snapshot) error

	// Load returns the most recently saved snapshot, or ErrNotFound
	Load(ctx context.Context) (*Snapshot, error)

	// History returns saved snapshots, newest first. A limit <= 0 returns all
	// the store keeps.
	History(ctx context.Context, limit int) ([]*Snapshot, error)

	// Clear removes every saved snapshot
	Clear(ctx context.Context) error
}

// Watcher is implemented by stores that can report snapshots saved by other
// processes.
type Watcher interface {
	// Watch calls fn for every snapshot saved after the call, until ctx is
	// done or the underlying notification mechanism fails.
	Watch(ctx context.Context, fn func(*Snapshot)) error
}

// Latest returns the namespaces saved in s, or "" when nothing was saved.
func Latest(ctx context.Context, s NamespaceStore) (string, error) {
	snap, err := s.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return snap.Namespaces, nil
}

// Trim keeps at most limit snapshots of a newest-first list.
func Trim(snapshots []*Snapshot, limit int) []*Snapshot {
	if limit > 0 && len(snapshots) > limit {
		return snapshots[:limit]
	}
	return snapshots
}
