// Package log is the diagnostics logger of nsdebug.
//
// Debug channels never write through this package. It exists so the library
// can report its own trouble, for example a namespace store that cannot be
// reached while persisting a new enable-string, without failing the caller.
//
// # Implementations
//
//   - DefaultLogger: Go's standard log package, prefixed with "[nsdebug] "
//   - GologLogger: a thin wrapper around a github.com/kataras/golog logger
//   - NoOpLogger: discards everything
//
// # Example Usage
//
//	import "github.com/kataras/golog"
//
//	glogger := golog.New()
//	glogger.SetPrefix("[myapp] ")
//
//	registry := debug.NewRegistry(
//		debug.WithLogger(log.NewGologLogger(glogger)),
//	)
//
// The package-level logger, used when no logger is configured, writes
// warnings and errors to stderr. Replace it with SetDefaultLogger or
// SetLogLevel.
package log
