package logger

import (
	"fmt"
	"io"
	"sync"
)

// mockLogger writes plain formatted lines to an io.Writer. Tests use it to
// assert on log output without standing up zap.
type mockLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewMockLogger returns a Logger that writes human-readable lines to w.
func NewMockLogger(w io.Writer) Logger {
	return &mockLogger{w: w}
}

func (m *mockLogger) write(level, msg string, fields ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.w, "%s: %s", level, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(m.w, " %v=%v", fields[i], fields[i+1])
	}
	fmt.Fprintln(m.w)
}

func (m *mockLogger) Info(msg string, fields ...interface{})  { m.write("INFO", msg, fields...) }
func (m *mockLogger) Error(msg string, fields ...interface{}) { m.write("ERROR", msg, fields...) }
func (m *mockLogger) Warn(msg string, fields ...interface{})  { m.write("WARN", msg, fields...) }
func (m *mockLogger) Debug(msg string, fields ...interface{}) { m.write("DEBUG", msg, fields...) }
func (m *mockLogger) Fatal(msg string, fields ...interface{}) { m.write("FATAL", msg, fields...) }

func (m *mockLogger) With(fields ...interface{}) Logger { return m }
