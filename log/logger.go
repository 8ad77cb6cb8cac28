package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"sync"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelNone disables all output.
	LevelNone
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// ParseLevel maps a level name ("debug", "info", "warn", "error", "none")
// to a Level. Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "warning", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	case "none", "disable", "NONE":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Logger is the printf-style logger accepted by every component.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// DefaultLogger writes through a standard library logger.
type DefaultLogger struct {
	logger *stdlog.Logger
	level  Level
}

// NewDefaultLogger creates a logger writing to stderr.
func NewDefaultLogger(level Level) *DefaultLogger {
	return NewWriterLogger(os.Stderr, level)
}

// NewWriterLogger creates a logger writing to out.
func NewWriterLogger(out io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{
		logger: stdlog.New(out, "[kwilsquid] ", stdlog.LstdFlags),
		level:  level,
	}
}

func (l *DefaultLogger) logf(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf("["+level.String()+"] "+format, v...)
}

func (l *DefaultLogger) Debug(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *DefaultLogger) Info(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *DefaultLogger) Warn(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *DefaultLogger) Error(format string, v ...any) { l.logf(LevelError, format, v...) }

type nopLogger struct{}

// NewNopLogger returns a Logger that discards all output.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewDefaultLogger(LevelInfo)
)

// SetDefault replaces the package-level logger. A nil logger disables output.
func SetDefault(logger Logger) {
	if logger == nil {
		logger = NewNopLogger()
	}
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// Default returns the package-level logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// OrDefault returns logger, or the package-level logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger != nil {
		return logger
	}
	return Default()
}

func Debug(format string, v ...any) { Default().Debug(format, v...) }
func Info(format string, v ...any)  { Default().Info(format, v...) }
func Warn(format string, v ...any)  { Default().Warn(format, v...) }
func Error(format string, v ...any) { Default().Error(format, v...) }
