// Package telemetry configures the process-wide structured logger. It is
// wired once at CLI startup; every other package accepts an injected
// zerolog.Logger (or falls back to the global one) and never prints
// directly to stdout/stderr itself.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the process-wide logger. Init replaces it; packages that don't
// receive a logger explicitly use this one.
var Log = log.Logger

// Options controls how Init configures the global logger.
type Options struct {
	// Level is one of zerolog's level strings: "trace", "debug", "info",
	// "warn", "error", or "" (defaults to "info").
	Level string
	// Pretty selects the human-readable console writer instead of JSON
	// lines. The CLI enables this for an interactive terminal.
	Pretty bool
	Output io.Writer
}

// Init configures the package-level logger and zerolog's global default,
// so third-party code that logs via github.com/rs/zerolog/log also picks
// up the chosen level and writer.
func Init(opts Options) zerolog.Logger {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	Log = logger
	log.Logger = logger
	return logger
}

// VerbosityToLevel maps the CLI's additive -v flag count to a zerolog
// level: 0 is info, 1 is debug, 2+ is trace.
func VerbosityToLevel(count int) string {
	switch {
	case count <= 0:
		return "info"
	case count == 1:
		return "debug"
	default:
		return "trace"
	}
}

// Duration logs an operation's wall-clock time in milliseconds, the unit
// spec §A.1 calls out (`duration_ms`) for ingest/batch/data-management
// events.
func Duration(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
