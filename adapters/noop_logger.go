package adapters

// NoopLogger discards all log messages. Useful for tests and for embedding
// the pipeline silently.
type NoopLogger struct{}

// Ensure NoopLogger implements Logger interface
var _ Logger = (*NoopLogger)(nil)

// NewNoopLogger creates a new NoopLogger instance.
func NewNoopLogger() Logger {
	return &NoopLogger{}
}

func (n *NoopLogger) Debug(message string, args ...interface{}) {}
func (n *NoopLogger) Info(message string, args ...interface{})  {}
func (n *NoopLogger) Warn(message string, args ...interface{})  {}
func (n *NoopLogger) Error(message string, args ...interface{}) {}
