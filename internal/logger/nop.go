package logger

// NoOpLogger discards everything. Tests and library callers that do not care
// about logs use it.
type NoOpLogger struct{}

func NewNop() Logger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field) {}
func (l *NoOpLogger) Warn(msg string, fields ...Field) {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
func (l *NoOpLogger) With(fields ...Field) Logger { return l }
func (l *NoOpLogger) Sync() error { return nil }
