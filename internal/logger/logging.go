// Package logger provides component loggers built on charmbracelet/log.
// Loggers write to stderr: stdout is reserved for the IPC stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() == log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
