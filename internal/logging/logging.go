// Package logging implements leveled structured logging on top of go-kit/log.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Level is a log level.
type Level uint

const (
	// LevelDebug is the log level for debug messages.
	LevelDebug Level = iota
	// LevelInfo is the log level for informative messages.
	LevelInfo
	// LevelWarn is the log level for warning messages.
	LevelWarn
	// LevelError is the log level for error messages.
	LevelError
)

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("logging: invalid log level: '%s'", s)
	}
}

func (l Level) option() level.Option {
	switch l {
	case LevelDebug:
		return level.AllowDebug()
	case LevelInfo:
		return level.AllowInfo()
	case LevelWarn:
		return level.AllowWarn()
	default:
		return level.AllowError()
	}
}

// Logger is a logger instance.
type Logger struct {
	logger log.Logger
}

// New creates a logger writing to w in the given format ("logfmt" or "json").
func New(w io.Writer, format string, lvl Level) (*Logger, error) {
	sw := log.NewSyncWriter(w)

	var base log.Logger
	switch strings.ToLower(format) {
	case "logfmt", "":
		base = log.NewLogfmtLogger(sw)
	case "json":
		base = log.NewJSONLogger(sw)
	default:
		return nil, fmt.Errorf("logging: invalid log format: '%s'", format)
	}

	base = log.With(base, "ts", log.DefaultTimestampUTC, "caller", log.Caller(5))
	return &Logger{logger: level.NewFilter(base, lvl.option())}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: log.NewNopLogger()}
}

// Debug logs the message and key value pairs at the Debug log level.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.log(level.Debug, msg, keyvals)
}

// Info logs the message and key value pairs at the Info log level.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.log(level.Info, msg, keyvals)
}

// Warn logs the message and key value pairs at the Warn log level.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.log(level.Warn, msg, keyvals)
}

// Error logs the message and key value pairs at the Error log level.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.log(level.Error, msg, keyvals)
}

// With returns a clone of the logger with the provided key/value pairs
// prepended to every record.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{logger: log.With(l.logger, keyvals...)}
}

func (l *Logger) log(lvl func(log.Logger) log.Logger, msg string, keyvals []interface{}) {
	if l == nil {
		return
	}
	keyvals = append([]interface{}{"msg", msg}, keyvals...)
	_ = lvl(l.logger).Log(keyvals...)
}
