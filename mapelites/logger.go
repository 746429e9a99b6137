package mapelites

import (
	"fmt"
	"log"
	"os"
)

// stdLogger adapts the standard library log package to the Logger interface,
// matching the plain fmt.Printf/log.Printf status-line style used throughout
// the rest of this codebase.
type stdLogger struct {
	*log.Logger
}

// NewStdLogger returns a Logger that writes to stderr with the standard
// timestamp prefix, the default used when NewRuntime is given a nil logger.
func NewStdLogger() Logger {
	return &stdLogger{log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *stdLogger) Printf(format string, args ...any) {
	l.Logger.Printf(format, args...)
}

func (l *stdLogger) Warnf(format string, args ...any) {
	l.Logger.Printf("WARN: "+format, args...)
}

// NopLogger discards everything. Used by tests that don't care about log
// output and don't want it polluting test runs.
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...any) {}
func (NopLogger) Warnf(format string, args ...any)  {}

// RecordingLogger captures warnings for assertions in tests that do care.
type RecordingLogger struct {
	Warnings []string
	Messages []string
}

func (r *RecordingLogger) Printf(format string, args ...any) {
	r.Messages = append(r.Messages, fmt.Sprintf(format, args...))
}

func (r *RecordingLogger) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
