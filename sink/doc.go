// Package sink contains the destinations debug output is written to.
//
// A Sink receives the already decorated arguments of one call. WriterSink
// joins them into a line for any io.Writer (stderr by default); GologSink and
// ZerologSink forward the line into an application's existing logger.
package sink
