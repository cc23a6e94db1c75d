package log

import (
	"log/slog"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

// SetDefaultLogger installs logger as the process-wide default and routes
// the standard slog default through it. nil resets to lazy creation.
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
	if logger != nil {
		slog.SetDefault(logger.Slog())
	}
}

// DefaultLogger returns the process-wide logger, creating one from
// DefaultConfig on first use.
func DefaultLogger() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := New(DefaultConfig())
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	return defaultLogger.Load()
}
