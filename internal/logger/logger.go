package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand for creating a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      Level     // Minimum log level
	FilePath   string    // Path to log file, empty disables file output
	MaxSize    int64     // Max size in bytes before rotation (default: 10MB)
	MaxAge     int       // Max age in days (default: 7)
	MaxBackups int       // Max number of backup files (default: 5)
	Console    bool      // Mirror entries to stderr
	Output     io.Writer // Extra writer, used by tests
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	logPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		logPath = filepath.Join(home, ".jato", "logs", "jato.log")
	}

	return Config{
		Level:      INFO,
		FilePath:   logPath,
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxAge:     7,
		MaxBackups: 5,
		Console:    false, // keeps the TUI clean
	}
}

// sink is shared by a logger and every child created with WithFields
type sink struct {
	config  Config
	mu      sync.Mutex
	file    *os.File
	writers []io.Writer
}

// Logger writes leveled entries with preset fields
type Logger struct {
	sink   *sink
	fields []Field
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init initializes the global logger
func Init(config Config) error {
	var err error
	once.Do(func() {
		globalLogger, err = New(config)
	})
	return err
}

// New creates a new logger instance
func New(config Config) (*Logger, error) {
	if config.MaxSize <= 0 {
		config.MaxSize = 10 * 1024 * 1024
	}
	if config.MaxBackups <= 0 {
		config.MaxBackups = 5
	}

	s := &sink{config: config}

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if err := s.openFile(); err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		if err := s.rotateIfNeeded(); err != nil {
			return nil, err
		}
	}
	s.resetWriters()

	return &Logger{sink: s}, nil
}

func (s *sink) openFile() error {
	file, err := os.OpenFile(s.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	s.file = file
	return nil
}

func (s *sink) resetWriters() {
	s.writers = s.writers[:0]
	if s.file != nil {
		s.writers = append(s.writers, s.file)
	}
	if s.config.Console {
		s.writers = append(s.writers, os.Stderr)
	}
	if s.config.Output != nil {
		s.writers = append(s.writers, s.config.Output)
	}
}

// rotateIfNeeded must be called with s.mu held (or before the sink is shared)
func (s *sink) rotateIfNeeded() error {
	if s.file == nil {
		return nil
	}

	info, err := s.file.Stat()
	if err != nil {
		return err
	}

	if info.Size() >= s.config.MaxSize {
		return s.rotate()
	}
	if s.config.MaxAge > 0 && info.Size() > 0 &&
		time.Since(info.ModTime()) > time.Duration(s.config.MaxAge)*24*time.Hour {
		return s.rotate()
	}
	return nil
}

func (s *sink) rotate() error {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	for i := s.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", s.config.FilePath, i)
		newPath := fmt.Sprintf("%s.%d", s.config.FilePath, i+1)
		_ = os.Rename(oldPath, newPath)
	}

	if _, err := os.Stat(s.config.FilePath); err == nil {
		if err := os.Rename(s.config.FilePath, s.config.FilePath+".1"); err != nil {
			return err
		}
	}

	if err := s.openFile(); err != nil {
		return err
	}
	s.resetWriters()
	return nil
}

func (l *Logger) log(level Level, msg string, fields []Field) {
	s := l.sink
	if level < s.config.Level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	caller := "???"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s: %s", time.Now().Format("2006-01-02 15:04:05.000"), level, caller, msg)

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	if len(all) > 0 {
		b.WriteString(" |")
		for _, f := range all {
			fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
		}
	}
	b.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.rotateIfNeeded()
	for _, w := range s.writers {
		_, _ = io.WriteString(w, b.String())
	}
}

// WithFields creates a child logger with preset fields
func (l *Logger) WithFields(fields ...Field) *Logger {
	preset := make([]Field, 0, len(l.fields)+len(fields))
	preset = append(preset, l.fields...)
	preset = append(preset, fields...)
	return &Logger{sink: l.sink, fields: preset}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(DEBUG, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(INFO, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(WARN, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(ERROR, msg, fields)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		l.sink.resetWriters()
		return err
	}
	return nil
}

// Global logger functions

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(DEBUG, msg, fields)
	}
}

// Info logs an info message using the global logger
func Info(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(INFO, msg, fields)
	}
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(WARN, msg, fields)
	}
}

// Error logs an error message using the global logger
func Error(msg string, fields ...Field) {
	if globalLogger != nil {
		globalLogger.log(ERROR, msg, fields)
	}
}

// Named returns a child of the global logger tagged with a component name.
// Before Init it returns a logger that discards everything.
func Named(component string) *Logger {
	if globalLogger != nil {
		return globalLogger.WithFields(F("component", component))
	}
	return Discard().WithFields(F("component", component))
}

// Discard returns a logger with no outputs
func Discard() *Logger {
	return &Logger{sink: &sink{config: Config{Level: ERROR + 1}}}
}

// Close closes the global logger
func Close() error {
	if globalLogger != nil {
		return globalLogger.Close()
	}
	return nil
}

// GetConfig returns the current logger configuration
func GetConfig() Config {
	if globalLogger != nil {
		return globalLogger.sink.config
	}
	return DefaultConfig()
}
