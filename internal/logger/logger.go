package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger writes component-tagged lines. Debug and Info are only emitted when
// the verbose checker says so; Warn and Error are always emitted.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	out            *output
}

// output is shared between a logger and the loggers derived from it so that
// SetOutput redirects all of them.
type output struct {
	mu sync.Mutex
	w  io.Writer
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// New creates a new logger instance
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		out:            &output{w: os.Stderr},
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{out: &output{w: io.Discard}}
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: l.verboseChecker,
		out:            l.out,
	}
}

// SetOutput redirects l and every logger derived from it to w.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.mu.Lock()
	l.out.w = w
	l.out.mu.Unlock()
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

func (l *Logger) verbose() bool {
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.verbose() {
		l.write("DEBUG", msg, nil, args...)
	}
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.verbose() {
		l.write("INFO", msg, nil, args...)
	}
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.write("WARN", msg, nil, args...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.write("ERROR", msg, nil, args...)
}

// DebugWithFields logs debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.write("DEBUG", msg, fields, args...)
	}
}

// InfoWithFields logs info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	if l.verbose() {
		l.write("INFO", msg, fields, args...)
	}
}

// WarnWithFields logs a warning with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.write("WARN", msg, fields, args...)
}

// write formats and writes one log line
func (l *Logger) write(level, msg string, fields []Field, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05.000")
	component := l.component
	if component == "" {
		component = "main"
	}

	formattedMsg := msg
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(msg, args...)
	}

	var fieldsStr string
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, field := range fields {
			parts = append(parts, fmt.Sprintf("%s=%v", field.Key, field.Value))
		}
		fieldsStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	logLine := fmt.Sprintf("[%s] %s [%s] %s%s\n", timestamp, level, component, formattedMsg, fieldsStr)

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	if _, err := io.WriteString(l.out.w, logLine); err != nil {
		// nowhere left to report it
		_ = err
	}
}

// Helper functions for common field types
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Points(n int) Field {
	return Field{Key: "points", Value: n}
}

func Smoothing(s float64) Field {
	return Field{Key: "smoothing", Value: s}
}

func Path(p string) Field {
	return Field{Key: "path", Value: p}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
