// Package logging holds the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
)

// Log is the shared logger. Components accept a logrus.FieldLogger and fall
// back to Log when none is given.
var Log = logrus.New()

// SetLevel applies a level name (debug, info, warn, error, fatal).
func SetLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		Log.SetLevel(logrus.DebugLevel)
	case "", "info":
		Log.SetLevel(logrus.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(logrus.WarnLevel)
	case "error":
		Log.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Log.SetLevel(logrus.FatalLevel)
	default:
		return fmt.Errorf("logging: unknown level %q", level)
	}
	return nil
}

// ToFile redirects Log to path (expanding "~"). The returned closer restores
// stderr output. The TUI uses this so log lines never paint over the screen.
func ToFile(path string) (io.Closer, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("logging: expand %q: %w", path, err)
	}
	if dir := filepath.Dir(expanded); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: create %q: %w", dir, err)
		}
	}
	f, err := os.OpenFile(expanded, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %q: %w", expanded, err)
	}
	Log.SetOutput(f)
	Log.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	return closerFunc(func() error {
		Log.SetOutput(os.Stderr)
		return f.Close()
	}), nil
}

// Or returns l, or Log when l is nil.
func Or(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return Log
	}
	return l
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
