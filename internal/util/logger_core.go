package util

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F builds a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// LogFormat selects how entries are serialised.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Output is a log destination.
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LogEntry is a single log record.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// LoggerInterface is what the rest of the module logs through.
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...any)
	Info(msg string, fields ...Field)
	Infof(format string, args ...any)
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...any)
	Error(msg string, fields ...Field)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	With(fields ...Field) LoggerInterface
	WithContext(ctx context.Context) LoggerInterface
	SetLevel(level LogLevel)
	AddOutput(output Output)
	Close() error
}

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level   string
	File    string
	Format  LogFormat
	Console bool // mirror entries to stderr
}

// sink is shared between a logger and everything derived from it with With.
type sink struct {
	mu      sync.RWMutex
	level   LogLevel
	outputs []Output
}

// Logger provides structured logging.
type Logger struct {
	sink   *sink
	fields map[string]any
}

// NewLogger creates a logger writing to the configured file and, optionally, stderr.
func NewLogger(cfg LoggerConfig) (*Logger, error) {
	format := cfg.Format
	if format == "" {
		format = FormatText
	}
	l := &Logger{
		sink:   &sink{level: ParseLogLevel(cfg.Level)},
		fields: map[string]any{},
	}
	if cfg.Console {
		l.AddOutput(NewConsoleOutput(os.Stderr, format))
	}
	if cfg.File != "" {
		out, err := NewFileOutput(cfg.File, format)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		l.AddOutput(out)
	}
	return l, nil
}

// ParseLogLevel maps a level name to a LogLevel; unknown names mean info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func (lv LogLevel) String() string {
	switch lv {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	if level < l.sink.level || len(l.sink.outputs) == 0 {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
	}
	if len(l.fields)+len(fields) > 0 {
		entry.Fields = make(map[string]any, len(l.fields)+len(fields))
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	for _, out := range l.sink.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("Failed to write log entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, fmt.Sprintf(format, args...)) }
func (l *Logger) Info(msg string, fields ...Field) { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Infof(format string, args ...any) { l.log(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Warn(msg string, fields ...Field) { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarn, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, fmt.Sprintf(format, args...)) }

// Fatalf logs and exits with status 1.
func (l *Logger) Fatalf(format string, args ...any) {
	l.log(LevelFatal, fmt.Sprintf(format, args...))
	os.Exit(1)
}

// With returns a logger that adds fields to every entry. Outputs and level are shared.
func (l *Logger) With(fields ...Field) LoggerInterface {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{sink: l.sink, fields: merged}
}

// WithContext adds the request and view IDs carried by ctx.
func (l *Logger) WithContext(ctx context.Context) LoggerInterface {
	var fields []Field
	if id := RequestIDFrom(ctx); id != "" {
		fields = append(fields, F(string(requestIDKey), id))
	}
	if id := ViewIDFrom(ctx); id != "" {
		fields = append(fields, F(string(viewIDKey), id))
	}
	return l.With(fields...)
}

// SetLevel sets the minimum level written.
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// AddOutput adds an output destination.
func (l *Logger) AddOutput(output Output) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.outputs = append(l.sink.outputs, output)
}

// Close closes every output.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	var firstErr error
	for _, out := range l.sink.outputs {
		if err := out.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.sink.outputs = nil
	return firstErr
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	viewIDKey    contextKey = "view_id"
)

// ContextWithRequestID attaches an HTTP request ID to ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request ID in ctx, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithViewID attaches a trail view ID to ctx.
func ContextWithViewID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, viewIDKey, id)
}

// ViewIDFrom returns the view ID in ctx, or "".
func ViewIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(viewIDKey).(string)
	return id
}
