// Package sqlite keeps namespace snapshots in a local SQLite database.
//
// It suits single-host tools that want history to survive restarts without
// running a server:
//
//	s, err := sqlite.NewSqliteNamespaceStore(sqlite.SqliteOptions{
//		Path: "./debug.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
// The schema is created on open.
package sqlite
