// Package logger provides a thread-safe, structured JSON logging solution.
// Entries are written as JSON lines through charmbracelet/log so the terminal
// UI never has log output interleaved with its frames.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// LogLevel represents the severity level of a log entry
// and defines the available log levels as constants.
type LogLevel string

const (
	Info  LogLevel = "INFO"  // Informational messages
	Error LogLevel = "ERROR" // Error conditions
	Warn  LogLevel = "WARN"  // Warning conditions
	Debug LogLevel = "DEBUG" // Debug-level messages
)

// charmLevel maps a LogLevel onto the charm log level.
func (l LogLevel) charmLevel() charmlog.Level {
	switch l {
	case Error:
		return charmlog.ErrorLevel
	case Warn:
		return charmlog.WarnLevel
	case Debug:
		return charmlog.DebugLevel
	default:
		return charmlog.InfoLevel
	}
}

// ParseLevel converts a level name ("debug", "INFO", ...) into a LogLevel.
// Unknown names fall back to Info.
func ParseLevel(name string) LogLevel {
	lvl, err := charmlog.ParseLevel(name)
	if err != nil {
		return Info
	}
	switch lvl {
	case charmlog.DebugLevel:
		return Debug
	case charmlog.WarnLevel:
		return Warn
	case charmlog.ErrorLevel, charmlog.FatalLevel:
		return Error
	default:
		return Info
	}
}

// Logger writes structured entries to a file.
// It's safe for concurrent use from multiple goroutines, and every method is
// safe to call on a nil *Logger, which discards the entry.
type Logger struct {
	closer io.Closer
	out    *charmlog.Logger
	mu     sync.Mutex
}

// Package-level variables for singleton pattern
var (
	singleton *Logger   // The single logger instance
	initErr   error     // Error from the first initialization, if any
	once      sync.Once // Used to ensure the logger is only initialized once
)

// NewLogger creates a new logger instance that writes to the specified file.
// It creates the log directory if it doesn't exist and opens the log file in append mode.
//
// Parameters:
//   - logPath: The full path to the log file
//
// Returns:
//   - *Logger: A new Logger instance
//   - error: Any error that occurred during logger creation
//
// Example:
//
//	logger, err := NewLogger("/home/me/.autocomplete/autocomplete.log")
//	if err != nil {
//	    log.Fatalf("Failed to create logger: %v", err)
//	}
//	defer logger.Close()
func NewLogger(logPath string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(file)
	l.closer = file
	return l, nil
}

// New creates a logger writing JSON lines to w. The caller owns w.
func New(w io.Writer) *Logger {
	return &Logger{
		out: charmlog.NewWithOptions(w, charmlog.Options{
			Prefix:          "autocomplete",
			ReportTimestamp: true,
			Formatter:       charmlog.JSONFormatter,
			Level:           charmlog.DebugLevel,
		}),
	}
}

// GetLogger returns a singleton instance of Logger.
// Subsequent calls with different log paths after the first call are ignored,
// and a failed first call keeps failing.
func GetLogger(logPath string) (*Logger, error) {
	once.Do(func() {
		singleton, initErr = NewLogger(logPath)
	})

	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", initErr)
	}

	return singleton, nil
}

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.SetLevel(level.charmLevel())
}

// Close closes the underlying log file.
// It's safe to call Close multiple times.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// log is the internal method that handles the actual logging.
// data is flattened into key/value pairs when it is a map, otherwise it is
// attached under the "data" key.
func (l *Logger) log(level LogLevel, message string, data interface{}) {
	if l == nil || l.out == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.out.Log(level.charmLevel(), message, keyvals(data)...)
}

func keyvals(data interface{}) []interface{} {
	switch d := data.(type) {
	case nil:
		return nil
	case map[string]interface{}:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kv := make([]interface{}, 0, len(d)*2)
		for _, k := range keys {
			kv = append(kv, k, d[k])
		}
		return kv
	case map[string]string:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kv := make([]interface{}, 0, len(d)*2)
		for _, k := range keys {
			kv = append(kv, k, d[k])
		}
		return kv
	default:
		return []interface{}{"data", d}
	}
}

// Info logs an informational message.
//
// Example:
//
//	logger.Info("popup attached", map[string]interface{}{
//	    "field": id,
//	    "rows":  3,
//	})
func (l *Logger) Info(message string, data interface{}) {
	l.log(Info, message, data)
}

// Error logs an error message along with error details.
// If data is a map, the error is added to it under the key "error" unless
// the map already carries one. If err is nil the entry is logged as a warning.
func (l *Logger) Error(message string, err error, data interface{}) {
	if err == nil {
		l.log(Warn, message+" (no error provided)", data)
		return
	}

	if data == nil {
		data = make(map[string]interface{})
	}

	if dataMap, ok := data.(map[string]interface{}); ok {
		if _, exists := dataMap["error"]; !exists {
			dataMap["error"] = err.Error()
		}
	}

	l.log(Error, message, data)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, data interface{}) {
	l.log(Warn, message, data)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, data interface{}) {
	l.log(Debug, message, data)
}
