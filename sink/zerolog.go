package sink

import "github.com/rs/zerolog"

// ZerologSink emits each line as a zerolog event at the configured level.
type ZerologSink struct {
	logger zerolog.Logger
	level  zerolog.Level
}

// NewZerologSink creates a sink emitting debug-level events on logger.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger, level: zerolog.DebugLevel}
}

// WithLevel returns a copy of the sink emitting at level.
func (s *ZerologSink) WithLevel(level zerolog.Level) *ZerologSink {
	return &ZerologSink{logger: s.logger, level: level}
}

// Log emits the joined arguments as the event message.
func (s *ZerologSink) Log(args ...any) {
	s.logger.WithLevel(s.level).Msg(Join(args...))
}
