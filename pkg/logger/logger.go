// Package logger builds the run's zerolog logger: one structured sink
// every kernel, config, and inspect-server call site logs through, so a
// run's diagnostics and its dispatch trace share one timestamp format
// and one global level.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the logger's verbosity and rendering.
type Config struct {
	Level  string // debug, info, warn, error; unrecognized values fall back to info
	Pretty bool   // human-readable console writer instead of raw JSON
}

var levels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

// New builds a logger at cfg's level with a timestamp, caller, and (if
// Pretty) a console writer. It also sets the zerolog global level, since
// library code reached through gonum/chi call sites logs through the
// package-level logger rather than a threaded-through instance.
func New(cfg Config) zerolog.Logger {
	level, ok := levels[cfg.Level]
	if !ok {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// SetGlobalLogger installs l as the package-level zerolog logger used by
// any dependency that logs through the global rather than an injected
// instance.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
