package file

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/smallnest/nsdebug/store"
)

// FileNamespaceStore keeps snapshots in a JSON-lines file, oldest first.
// Writes replace the file atomically so readers never see a partial line.
type FileNamespaceStore struct {
	mu    sync.Mutex
	path  string
	limit int
}

var (
	_ store.NamespaceStore = (*FileNamespaceStore)(nil)
	_ store.Watcher        = (*FileNamespaceStore)(nil)
)

// NewFileNamespaceStore creates a store writing to path, creating its
// directory if needed
func NewFileNamespaceStore(path string) (*FileNamespaceStore, error) {
	if path == "" {
		return nil, errors.New("file store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileNamespaceStore{
		path:  path,
		limit: store.DefaultHistoryLimit,
	}, nil
}

// Path returns the file the store writes to
func (s *FileNamespaceStore) Path() string {
	return s.path
}

// Save appends a snapshot, dropping the oldest ones past the history limit
func (s *FileNamespaceStore) Save(_ context.Context, snapshot *store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.read()
	if err != nil {
		return err
	}
	snapshots = append(snapshots, snapshot)
	if len(snapshots) > s.limit {
		snapshots = snapshots[len(snapshots)-s.limit:]
	}
	return s.write(snapshots)
}

// Load returns the last snapshot in the file
func (s *FileNamespaceStore) Load(_ context.Context) (*store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, store.ErrNotFound
	}
	return snapshots[len(snapshots)-1], nil
}

// History returns snapshots newest first
func (s *FileNamespaceStore) History(_ context.Context, limit int) ([]*store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.read()
	if err != nil {
		return nil, err
	}

	out := make([]*store.Snapshot, 0, len(snapshots))
	for i := len(snapshots) - 1; i >= 0; i-- {
		out = append(out, snapshots[i])
	}
	return store.Trim(out, limit), nil
}

// Clear removes the file
func (s *FileNamespaceStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear namespaces: %w", err)
	}
	return nil
}

// Watch calls fn whenever another writer leaves a new last snapshot in the
// file. The directory is watched rather than the file, since every write
// replaces the file.
func (s *FileNamespaceStore) Watch(ctx context.Context, fn func(*store.Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.path, err)
	}

	var lastID string
	if snap, err := s.Load(ctx); err == nil {
		lastID = snap.ID
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			snap, err := s.Load(ctx)
			if err != nil || snap.ID == lastID {
				continue
			}
			lastID = snap.ID
			fn(snap)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("failed to watch %s: %w", s.path, err)
		}
	}
}

func (s *FileNamespaceStore) read() ([]*store.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read namespaces: %w", err)
	}

	var snapshots []*store.Snapshot
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var snap store.Snapshot
		if err := json.Unmarshal(line, &snap); err != nil {
			// skip lines written by something else
			continue
		}
		snapshots = append(snapshots, &snap)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan namespaces: %w", err)
	}
	return snapshots, nil
}

func (s *FileNamespaceStore) write(snapshots []*store.Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, snap := range snapshots {
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write namespaces: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write namespaces: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace namespaces file: %w", err)
	}
	return nil
}
