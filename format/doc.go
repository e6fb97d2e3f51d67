// Package format implements the per-call formatting pipeline of debug
// channels: '%' directive expansion against a table of formatters, value
// inspection for %o and %O, and the short duration form used for diffs.
//
// # Directives
//
// A directive is '%' followed by an ASCII letter. Each one consumes the next
// argument when a formatter is registered for its letter:
//
//	format.Expand([]any{"hello %s", "world"}, table, ctx) // ["hello world"]
//	format.Expand([]any{"100%%"}, table, ctx)             // ["100%"]
//	format.Expand([]any{"%j", v}, format.Table{}, ctx)    // ["%j", v]
//
// Arguments that are not consumed are returned after the expanded template so
// the sink can append them.
//
// # Inspection
//
// Values rendered by %o and %O go through an Inspector. Types can print
// themselves by implementing Inspectable, or callers can register a printer
// per type:
//
//	in := format.NewInspector()
//	format.RegisterPrinter(in, func(u User) string { return u.Name })
//
// Everything else falls back to a structural dump by go-spew.
package format
