package overlay

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEvent describes one editor operation for logging.
type LogEvent struct {
	Kind     string
	Key      string
	Path     string
	Duration time.Duration
	Err      error
	Fields   map[string]any
}

// EventLogger records editor events.
type EventLogger interface {
	LogEvent(LogEvent)
}

// EventLoggerFunc adapts a function to EventLogger.
type EventLoggerFunc func(LogEvent)

// LogEvent implements EventLogger.
func (f EventLoggerFunc) LogEvent(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEventLogger struct{}

func (noopEventLogger) LogEvent(LogEvent) {}

// NewZapLogger logs editor events through zap. Failed local writes log at
// error level, other failures at warn, edits at debug, the rest at info.
func NewZapLogger(logger *zap.Logger) EventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return zapEventLogger{logger: logger.Named("overlay")}
}

type zapEventLogger struct {
	logger *zap.Logger
}

func (l zapEventLogger) LogEvent(event LogEvent) {
	fields := make([]zap.Field, 0, 4+len(event.Fields))
	fields = append(fields, zap.String("key", event.Key))
	if event.Path != "" {
		fields = append(fields, zap.String("path", event.Path))
	}
	if event.Duration > 0 {
		fields = append(fields, zap.Duration("duration", event.Duration))
	}
	for name, value := range event.Fields {
		fields = append(fields, zap.Any(name, value))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
	}
	if ce := l.logger.Check(levelFor(event), event.Kind); ce != nil {
		ce.Write(fields...)
	}
}

func levelFor(event LogEvent) zapcore.Level {
	switch {
	case event.Err != nil && event.Kind == "save":
		return zapcore.ErrorLevel
	case event.Err != nil:
		return zapcore.WarnLevel
	case event.Kind == "update":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
