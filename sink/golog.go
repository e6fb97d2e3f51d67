package sink

import "github.com/kataras/golog"

// GologSink hands lines to a golog logger through its level-less Print.
type GologSink struct {
	logger *golog.Logger
}

// NewGologSink wraps logger, or golog.Default when logger is nil.
func NewGologSink(logger *golog.Logger) *GologSink {
	if logger == nil {
		logger = golog.Default
	}
	return &GologSink{logger: logger}
}

// Log prints the joined arguments.
func (s *GologSink) Log(args ...any) {
	s.logger.Print(Join(args...))
}
