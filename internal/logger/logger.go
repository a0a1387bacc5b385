// Package logger provides module-aware structured logging built on log/slog.
//
// Loggers are obtained from the process-wide CentralLogger:
//
//	log := logger.Global().Module("closet")
//	log.Info("item uploaded",
//	    logger.Uint("item_id", item.ID),
//	    logger.String("filename", item.ImageFilename))
//
// Console output is human-readable text; file output is JSON rotated by
// lumberjack.
package logger

import (
	"time"
	"unique"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Field represents a structured log field.
// Keys are interned using unique.Make() for memory efficiency - the same key
// string (e.g., "error", "item_id") used across millions of log calls shares
// a single allocation.
type Field struct {
	Key   string
	Value any
}

// internKey returns an interned version of the key string.
// This ensures repeated keys share the same underlying memory.
func internKey(key string) string {
	return unique.Make(key).Value()
}

// Pre-interned common keys
var (
	errorKey  = internKey("error")
	moduleKey = internKey("module")
)

// Logger is the centralized logging interface for dependency injection
type Logger interface {
	// Module returns a logger scoped to a specific module
	Module(name string) Logger

	// Leveled logging methods
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every entry
	With(fields ...Field) Logger

	// Log with explicit level
	Log(level LogLevel, msg string, fields ...Field)

	// Flush ensures all buffered logs are written
	Flush() error
}

// String creates a string field for structured logging.
//
// Example:
//
//	log.Info("weather fetched",
//	    logger.String("city", city),
//	    logger.String("description", w.Description))
func String(key, value string) Field {
	return Field{Key: internKey(key), Value: value}
}

// Int creates an integer field for structured logging.
func Int(key string, value int) Field {
	return Field{Key: internKey(key), Value: value}
}

// Int64 creates a 64-bit integer field for structured logging.
func Int64(key string, value int64) Field {
	return Field{Key: internKey(key), Value: value}
}

// Uint creates an unsigned integer field, used for database IDs.
func Uint(key string, value uint) Field {
	return Field{Key: internKey(key), Value: value}
}

// Float64 creates a float field. Values are rounded to three decimals on output.
func Float64(key string, value float64) Field {
	return Field{Key: internKey(key), Value: value}
}

// Bool creates a boolean field for structured logging.
func Bool(key string, value bool) Field {
	return Field{Key: internKey(key), Value: value}
}

// Error creates an error field for structured logging.
//
// The field key is always "error". If err is nil, the value will be nil.
//
// Example:
//
//	if err := repo.Delete(ctx, id); err != nil {
//	    log.Error("failed to delete item",
//	        logger.Error(err),
//	        logger.Uint("item_id", id))
//	    return err
//	}
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: nil}
	}
	return Field{Key: errorKey, Value: err.Error()}
}

// Duration creates a duration field rendered as a human-readable string.
func Duration(key string, value time.Duration) Field {
	return Field{Key: internKey(key), Value: value.String()}
}

// Time creates a time field for structured logging.
func Time(key string, value time.Time) Field {
	return Field{Key: internKey(key), Value: value}
}

// Strings creates a field holding a list of strings, such as selected labels.
func Strings(key string, values []string) Field {
	return Field{Key: internKey(key), Value: values}
}

// Any creates a field with any value. Prefer the typed constructors.
func Any(key string, value any) Field {
	return Field{Key: internKey(key), Value: value}
}
