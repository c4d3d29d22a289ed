// Package logging - logging.go
//
// This file implements the process-wide logger shared by every package.
//
// Logging System:
//   - Leveled output: DEBUG, INFO, WARN, ERROR
//   - Writes to Debug.log (truncated on each startup) and to stderr
//   - Microsecond timestamps for timing analysis of the playback loop
//   - Package-level convenience functions so components never carry a logger
//
// Before Init is called, messages go to stderr only. Tests and library users
// therefore never need to set anything up.
//
// Level usage:
//   - DEBUG: pixel probes, per-token playback, glyph scores
//   - INFO: session events (origin found, game start, run outcome)
//   - WARN: recoverable problems (unknown token, unreadable score)
//   - ERROR: failed captures, input injection errors, storage failures
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// DefaultFile is the log file written next to the working directory
const DefaultFile = "Debug.log"

var (
	mu     sync.Mutex
	file   *os.File
	logger = newLogger(os.Stderr, log.InfoLevel)
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006/01/02 15:04:05.000000",
		Prefix:          "qwopbot",
		Level:           level,
	})
}

// Init opens path (truncating it) and routes all output to it and stderr.
// An empty path logs to stderr only. level is one of debug, info, warn, error.
func Init(path, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}

	var w io.Writer = os.Stderr
	if path != "" {
		// Use O_TRUNC to clear the file on startup
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		w = io.MultiWriter(f, os.Stderr)
	}

	logger = newLogger(w, lvl)
	logger.Info("Logger initialized (log file cleared)", "file", path, "level", lvl)
	return nil
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		logger.Info("Logger closing")
		file.Close()
		file = nil
	}
	logger = newLogger(os.Stderr, logger.GetLevel())
}

// SetOutput redirects the logger. Used by tests to silence or capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Logger returns the current logger
func Logger() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Debugf logs debug level messages
func Debugf(format string, v ...interface{}) {
	Logger().Debugf(format, v...)
}

// Infof logs info level messages
func Infof(format string, v ...interface{}) {
	Logger().Infof(format, v...)
}

// Warnf logs warning level messages
func Warnf(format string, v ...interface{}) {
	Logger().Warnf(format, v...)
}

// Errorf logs error level messages
func Errorf(format string, v ...interface{}) {
	Logger().Errorf(format, v...)
}
