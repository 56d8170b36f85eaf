// Package logging builds the zerolog.Logger every other package's
// structured logging flows through, per the `log.Ctx(ctx).Debug()...
// Msg()` idiom in
// _examples/other_examples/6fb47505_avular-robotics-avular-packages__internal-core-resolver.go.go.
// Non-goals exclude a metrics/observability layer, but structured
// logging is ambient — it ships regardless.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures the root logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// JSON selects structured JSON output; otherwise a human-readable
	// console writer is used (zerolog.ConsoleWriter), matching the
	// teacher's development-mode default.
	JSON bool
	// Writer overrides the output sink. Defaults to os.Stderr.
	Writer io.Writer
}

// New builds a root zerolog.Logger from Options.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	level := parseLevel(opts.Level)
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithContext attaches logger to ctx so downstream code can recover it via
// zerolog/log.Ctx(ctx), the propagation style this package's callers
// follow.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}
