package adapters

import (
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLogger is the default Logger implementation backed by logrus.
type LogrusLogger struct {
	logger *logrus.Logger
}

// Ensure LogrusLogger implements Logger interface
var _ Logger = (*LogrusLogger)(nil)

// NewLogrusLogger creates a logrus-backed logger writing to stderr at the
// given minimum level.
func NewLogrusLogger(level LogLevel) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrusLevel(level))
	return &LogrusLogger{logger: l}
}

// WrapLogrus adapts an existing logrus logger, so the pipeline shares the
// host application's log configuration.
func WrapLogrus(logger *logrus.Logger) Logger {
	return &LogrusLogger{logger: logger}
}

func logrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelInfo:
		return logrus.InfoLevel
	case LogLevelWarn:
		return logrus.WarnLevel
	case LogLevelError:
		return logrus.ErrorLevel
	case LogLevelNone:
		return logrus.PanicLevel
	default:
		return logrus.WarnLevel
	}
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(message string, args ...interface{}) {
	l.logger.Debugf(message, args...)
}

// Info logs an info message
func (l *LogrusLogger) Info(message string, args ...interface{}) {
	l.logger.Infof(message, args...)
}

// Warn logs a warning message
func (l *LogrusLogger) Warn(message string, args ...interface{}) {
	l.logger.Warnf(message, args...)
}

// Error logs an error message
func (l *LogrusLogger) Error(message string, args ...interface{}) {
	l.logger.Errorf(message, args...)
}
