package logging

// Sink is the port assertion checks emit their messages
// through. It carries only a level and the exact message text.
type Sink interface {
	Emit(level LogLevel, msg string)
}

// LoggerSink adapts a Logger to the Sink port.
type LoggerSink struct {
	logger Logger
}

// NewSink wraps a Logger so it can receive check messages.
// A nil logger yields a sink that discards everything.
func NewSink(logger Logger) *LoggerSink {
	if logger == nil {
		logger = NullLogger{}
	}
	return &LoggerSink{logger: logger}
}

// Emit forwards msg to the logger method matching level.
func (s *LoggerSink) Emit(level LogLevel, msg string) {
	switch level {
	case LevelDebug:
		s.logger.Debug(msg)
	case LevelWarn:
		s.logger.Warn(msg)
	case LevelError:
		s.logger.Error(msg)
	default:
		s.logger.Info(msg)
	}
}

// Logger returns the wrapped logger.
func (s *LoggerSink) Logger() Logger {
	return s.logger
}
