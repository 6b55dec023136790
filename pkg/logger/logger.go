package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service is stamped on every log line.
const Service = "bank-ledger"

// New returns the process logger: JSON on stdout, or a console writer when
// pretty is set. Lines carry the caller.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return build(w, level).With().Caller().Logger()
}

// NewWithWriter returns a JSON logger on w without caller info. Tests and
// the CLI's verbose mode use it.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return build(w, level)
}

// Component derives a child logger tagged with the component name
// ("http", "audit", "ledger").
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func build(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", Service).
		Logger()
}

// ParseLevel maps a config value to a level, case-insensitively. "warning"
// is accepted for "warn"; anything unrecognised falls back to info.
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
