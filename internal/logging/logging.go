// Package logging configures the application's zerolog logger and the
// frontend error log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options controls how Setup builds the logger.
type Options struct {
	// Debug enables the structured file log next to the console output.
	Debug bool
	// Dir is where log files are written.
	Dir string
	// Level is one of debug, info, warn, error. Empty picks a default
	// (debug in debug builds, warn otherwise).
	Level string
	// Console overrides the console writer destination (stderr when nil).
	Console io.Writer
}

// Logger bundles the configured logger with the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// Setup builds the application logger. Debug builds write JSON lines to
// inotes-dev.log in Dir in addition to the console.
func Setup(opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	zerolog.SetGlobalLevel(ParseLevel(opts.Level, opts.Debug))
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(console),
	}

	if !opts.Debug {
		l := zerolog.New(consoleWriter).With().Timestamp().Logger()
		return &Logger{Logger: l}, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(opts.Dir, "inotes-dev.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	multi := zerolog.MultiLevelWriter(consoleWriter, f)
	l := zerolog.New(multi).With().Timestamp().Logger()
	return &Logger{Logger: l, file: f}, nil
}

// isTerminal reports whether w is a terminal that renders colour codes.
// Redirected output and the console allocated by GUI builds get plain text.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetLevel changes the minimum level for every logger derived from Setup.
// Components hold copies of the logger, so the level is applied globally.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Close closes the log file, if one was opened.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a config string to a zerolog level.
func ParseLevel(s string, debug bool) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}
