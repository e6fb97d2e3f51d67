// nsdebug - Namespaced Debug Logging for Go
//
// nsdebug gives every part of a program its own named debug channel and keeps
// all of them silent until their names are enabled, usually through the DEBUG
// environment variable. It is meant for the output you want while chasing a
// problem and never otherwise.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/nsdebug
//
// Basic example:
//
//	package main
//
//	import "github.com/smallnest/nsdebug/debug"
//
//	var log = debug.New("app:http")
//
//	func main() {
//		log.Log("listening on %s", ":8080")
//	}
//
// Run it with the namespace enabled:
//
//	$ DEBUG=app:* go run .
//	  app:http listening on :8080 +0ms
//
// # Key Features
//
//   - Wildcards and exclusions: DEBUG="app:*,-app:verbose"
//   - Runtime changes: enabling affects channels that already exist
//   - Directives: %o, %O, %j, %s, %d and your own
//   - Stable colors per namespace, time since the previous line
//   - Persistence of the enable-string in env, file, redis, postgres or sqlite
//   - Live reconfiguration of many processes through a watched store
//
// # Package Structure
//
// debug/
// Registries, channels, output options and the console decorator
//
//	reg := debug.NewRegistry(debug.WithStore(memory.NewMemoryNamespaceStore()))
//	reg.Enable("worker:*")
//	reg.Channel("worker:queue").Log("picked %d jobs", 3)
//
// namespace/
// Compiles enable-strings and matches names against them
//
// format/
// Directive expansion, value inspection and duration formatting
//
// sink/
// Destinations for channel output: any io.Writer, golog or zerolog
//
// store/
// Where the enable-string is saved, with env, memory, file, redis,
// postgres and sqlite backends
//
// log/
// The library's own diagnostics
//
// cmd/nsdebug/
// A command line tool to enable, disable, inspect and watch namespaces
//
// # Configuration
//
// The debug package reads these environment variables:
//
//   - DEBUG: the enable-string
//   - DEBUG_COLORS: force colors on or off, 256 for the extended palette
//   - DEBUG_DEPTH: nesting limit for %o and %O
//   - DEBUG_SHOW_HIDDEN: print pointer addresses and capacities
//   - DEBUG_HIDE_DATE: drop the timestamp from uncolored output
package nsdebug // import "github.com/smallnest/nsdebug"
