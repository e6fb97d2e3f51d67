// Package store persists the enable-string of a debug registry.
//
// A registry reads its enable-string once at startup and writes it back every
// time Enable or Disable is called. Where it lives is up to the
// NamespaceStore:
//
//   - env: the DEBUG environment variable of the current process (default)
//   - memory: in-process, mostly for tests
//   - file: a JSON-lines file, watched with fsnotify
//   - redis: a key plus a capped history list, watched with pub/sub
//   - postgres: a snapshot table through pgx
//   - sqlite: a snapshot table through database/sql
//
// Every save is a Snapshot carrying a uuid, the raw enable-string, a timestamp
// and a version number, so stores that keep history can list past
// configurations.
//
// # Watching
//
// Stores that implement Watcher let a long-running process pick up changes
// made elsewhere, for example by the nsdebug CLI:
//
//	s, _ := file.NewFileNamespaceStore("/var/run/myapp/debug.jsonl")
//	registry := debug.NewRegistry(debug.WithStore(s))
//	go registry.Watch(ctx)
//
// # Implementing a Store
//
// A store only has to implement Save, Load, History and Clear. Load must
// return ErrNotFound when nothing was saved; the registry treats that as an
// empty enable-string.
package store
