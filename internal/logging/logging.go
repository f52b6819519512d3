// Package logging sets up the zerolog logger. The terminal belongs to the
// TUI, so everything is written to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultFile is the log file name used when no path is given
const DefaultFile = "reelgrip.log"

// Init points the global logger at path and returns the logger together
// with a function closing the file. debug lowers the level to Debug.
func Init(path string, debug bool) (zerolog.Logger, func() error, error) {
	if path == "" {
		path = DefaultFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	logger := New(f, debug)
	log.Logger = logger
	return logger, f.Close, nil
}

// New returns a logger writing JSON lines to w
func New(w io.Writer, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "reelgrip").
		Logger()
}

// Console returns a human readable logger on stderr, for the CLI
func Console(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
