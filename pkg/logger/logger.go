// Package logger wraps logrus behind the printf-style API used across the
// project. The MCP server binary must keep stdout clean for the protocol
// stream, so all log output goes to stderr (or a file when InitLog is used).
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var std = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// InitLog redirects log output to the given file, creating parent
// directories as needed. Stderr remains the fallback on failure.
func InitLog(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file %q: %w", path, err)
	}
	std.SetOutput(f)
	return nil
}

// FlushLog is a no-op hook kept for symmetry with InitLog; logrus writes
// synchronously.
func FlushLog() {}

// SetVerbose enables debug-level output.
func SetVerbose(v bool) {
	if v {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(out io.Writer) {
	std.SetOutput(out)
}

func Debug(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

func Info(format string, args ...interface{}) {
	std.Infof(format, args...)
}

func Warn(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

func Error(format string, args ...interface{}) {
	std.Errorf(format, args...)
}
