package memory

import (
	"context"
	"sync"

	"github.com/smallnest/nsdebug/store"
)

// MemoryNamespaceStore keeps snapshots in process memory
type MemoryNamespaceStore struct {
	mu        sync.RWMutex
	snapshots []*store.Snapshot // newest first
	limit     int
	watchers  map[int]chan *store.Snapshot
	nextID    int
}

var (
	_ store.NamespaceStore = (*MemoryNamespaceStore)(nil)
	_ store.Watcher        = (*MemoryNamespaceStore)(nil)
)

// NewMemoryNamespaceStore creates an empty in-memory store
func NewMemoryNamespaceStore() *MemoryNamespaceStore {
	return &MemoryNamespaceStore{
		limit:    store.DefaultHistoryLimit,
		watchers: make(map[int]chan *store.Snapshot),
	}
}

// Save stores a snapshot and notifies watchers
func (m *MemoryNamespaceStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	cp := *snapshot

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = store.Trim(append([]*store.Snapshot{&cp}, m.snapshots...), m.limit)

	for _, ch := range m.watchers {
		notify := cp
		deliver(ch, &notify)
	}
	return nil
}

// deliver queues s for a watcher without blocking. A full queue loses its
// oldest entry so the newest snapshot always arrives. Callers hold m.mu, the
// only senders are serialized.
func deliver(ch chan *store.Snapshot, s *store.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Load returns the latest snapshot
func (m *MemoryNamespaceStore) Load(_ context.Context) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.snapshots) == 0 {
		return nil, store.ErrNotFound
	}
	cp := *m.snapshots[0]
	return &cp, nil
}

// History returns saved snapshots, newest first
func (m *MemoryNamespaceStore) History(_ context.Context, limit int) ([]*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*store.Snapshot, 0, len(m.snapshots))
	for _, s := range store.Trim(m.snapshots, limit) {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

// Clear removes every snapshot
func (m *MemoryNamespaceStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = nil
	return nil
}

// Watch calls fn for every snapshot saved until ctx is done
func (m *MemoryNamespaceStore) Watch(ctx context.Context, fn func(*store.Snapshot)) error {
	ch := make(chan *store.Snapshot, 16)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-ch:
			fn(s)
		}
	}
}
