package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Sink receives the decorated arguments of a log call.
type Sink interface {
	Log(args ...any)
}

// Func adapts a plain function to Sink.
type Func func(args ...any)

// Log calls f.
func (f Func) Log(args ...any) {
	f(args...)
}

// Join renders args the way they are written out: strings verbatim,
// everything else through fmt, separated by single spaces.
func Join(args ...any) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch v := arg.(type) {
		case string:
			b.WriteString(v)
		case error:
			b.WriteString(v.Error())
		default:
			fmt.Fprintf(&b, "%+v", v)
		}
	}
	return b.String()
}

// WriterSink writes one line per call to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w, or to stderr when w is nil.
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = os.Stderr
	}
	return &WriterSink{w: w}
}

// Stderr returns a sink writing to os.Stderr.
func Stderr() *WriterSink {
	return NewWriterSink(os.Stderr)
}

// Log writes the joined arguments followed by a newline.
func (s *WriterSink) Log(args ...any) {
	line := Join(args...) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line)
}

// Discard drops everything.
var Discard Sink = Func(func(...any) {})
