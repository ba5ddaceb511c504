// Package logging is a small levelled file logger shared by the CLI tools.
// Calls made before InitLogger are dropped, except Error which falls back to stderr.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogFileName is the log file created under the directory passed to InitLogger
const LogFileName = "sinkswitch.log"

// Level is a log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// Logger writes levelled lines to a file
type Logger struct {
	mu     sync.Mutex
	out    *log.Logger
	file   io.Closer
	prefix string
	level  Level
	path   string
}

var (
	globalMu sync.Mutex
	global   *Logger
)

// InitLogger opens (appending) <dir>/sinkswitch.log and installs it as the package logger.
// SINKSWITCH_LOG_LEVEL=debug|info|warn|error sets the threshold (default debug).
func InitLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := newLogger(f, f, ParseLevel(os.Getenv("SINKSWITCH_LOG_LEVEL")))
	l.path = path

	globalMu.Lock()
	old := global
	global = l
	globalMu.Unlock()

	if old != nil {
		old.close()
	}
	return l, nil
}

// NewWriterLogger installs a logger that writes to w, replacing the current one.
func NewWriterLogger(w io.Writer, level Level) *Logger {
	l := newLogger(w, nil, level)
	globalMu.Lock()
	global = l
	globalMu.Unlock()
	return l
}

func newLogger(w io.Writer, c io.Closer, level Level) *Logger {
	return &Logger{
		out:   log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		file:  c,
		level: level,
	}
}

// ParseLevel maps a level name to a Level, defaulting to LevelDebug
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Path returns the file the logger writes to, empty for writer loggers
func (l *Logger) Path() string {
	return l.path
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		l.out.Printf("[%s] [%s] %s", level, l.prefix, msg)
		return
	}
	l.out.Printf("[%s] %s", level, msg)
}

func (l *Logger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
}

func current() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// SetPrefix tags every following line, e.g. with a run id
func SetPrefix(prefix string) {
	if l := current(); l != nil {
		l.mu.Lock()
		l.prefix = prefix
		l.mu.Unlock()
	}
}

// Close flushes and detaches the package logger
func Close() {
	globalMu.Lock()
	l := global
	global = nil
	globalMu.Unlock()

	if l != nil {
		l.close()
	}
}

func Debug(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.logf(LevelDebug, format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.logf(LevelInfo, format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.logf(LevelWarn, format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.logf(LevelError, format, args...)
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
}
