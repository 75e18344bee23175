// Package debug provides conditional debug logging for foxcasts.
//
// Debug logging is enabled by setting the FOXCASTS_DEBUG environment variable:
//
//	FOXCASTS_DEBUG=1 foxcasts
//
// When enabled, leveled key/value records are written to stderr (or to the
// writer passed to SetOutput; the TUI redirects them to a log file because it
// owns the terminal). When disabled (default), every function is a no-op.
//
// Usage:
//
//	import "github.com/vanderheijden86/foxcasts/pkg/debug"
//
//	var log = debug.With("component", "nav")
//
//	func myFunc() {
//	    log.Debug("moved selection", "from", prev, "to", next)
//	    debug.LogTiming("myFunc", elapsed)
//	}
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	cblog "github.com/charmbracelet/log"
)

var (
	mu sync.RWMutex
	// enabled is true when FOXCASTS_DEBUG env var is set
	enabled bool
	// logger is the shared sink for every component logger
	logger *cblog.Logger
)

func init() {
	logger = newLogger(os.Stderr)
	if v := strings.TrimSpace(os.Getenv("FOXCASTS_DEBUG")); v != "" && v != "0" {
		enabled = true
		if lvl, err := cblog.ParseLevel(v); err == nil {
			logger.SetLevel(lvl)
		}
	}
}

func newLogger(w io.Writer) *cblog.Logger {
	return cblog.NewWithOptions(w, cblog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000000",
		Prefix:          "FOXCASTS",
		Level:           cblog.DebugLevel,
	})
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
}

// SetOutput redirects log records, e.g. to a file while the TUI is running.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// SetLevel parses and applies a level name ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	lvl, err := cblog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	logger.SetLevel(lvl)
	return nil
}

func sink() (*cblog.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, enabled
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	l, on := sink()
	if !on {
		return
	}
	l.Debugf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	l, on := sink()
	if !on {
		return
	}
	l.Debug("timing", "op", name, "took", d)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	l, on := sink()
	if !on {
		return func() {}
	}
	l.Debug("enter", "fn", name)
	start := time.Now()
	return func() {
		l.Debug("exit", "fn", name, "took", time.Since(start))
	}
}

// Logger is a component-scoped logger. The zero value logs without fields.
// Records are gated on Enabled at call time, so package-level loggers
// created before SetEnabled still follow it.
type Logger struct {
	fields []any
}

// With returns a Logger that prefixes every record with keyvals.
func With(keyvals ...any) Logger {
	return Logger{fields: keyvals}
}

// With returns a child logger carrying additional fields.
func (l Logger) With(keyvals ...any) Logger {
	fields := make([]any, 0, len(l.fields)+len(keyvals))
	fields = append(fields, l.fields...)
	fields = append(fields, keyvals...)
	return Logger{fields: fields}
}

func (l Logger) emit(level cblog.Level, msg string, keyvals []any) {
	base, on := sink()
	if !on {
		return
	}
	kv := make([]any, 0, len(l.fields)+len(keyvals))
	kv = append(kv, l.fields...)
	kv = append(kv, keyvals...)
	base.Log(level, msg, kv...)
}

// Debug logs at debug level.
func (l Logger) Debug(msg string, keyvals ...any) { l.emit(cblog.DebugLevel, msg, keyvals) }

// Info logs at info level.
func (l Logger) Info(msg string, keyvals ...any) { l.emit(cblog.InfoLevel, msg, keyvals) }

// Warn logs at warn level.
func (l Logger) Warn(msg string, keyvals ...any) { l.emit(cblog.WarnLevel, msg, keyvals) }

// Error logs at error level.
func (l Logger) Error(msg string, keyvals ...any) { l.emit(cblog.ErrorLevel, msg, keyvals) }
