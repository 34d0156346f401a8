// Package logger provides structured logging for the framework and its
// consumer modules. Every subsystem traces through here so a host admin can
// follow a player session end to end.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the convenience methods the rest of
// this codebase is written against.
type Logger struct {
	z zerolog.Logger
}

// NewLogger builds a console-writer logger at info level. Production hosts
// that want JSON output can swap the writer via New.
func NewLogger() *Logger {
	w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	z := zerolog.New(w).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &Logger{z: z}
}

// New wraps an already-configured zerolog.Logger, letting a host pick JSON
// output, a different sink, or a different level.
func New(z zerolog.Logger) *Logger {
	return &Logger{z: z}
}

// With returns a child logger with the given key/value pair attached to
// every subsequent entry, e.g. log.With("module", "metabolism").
func (l *Logger) With(key string, value string) *Logger {
	return &Logger{z: l.z.With().Str(key, value).Logger()}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.z.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.z.Warn().Msg(msg)
}

// Error logs an error message, attaching err when non-nil.
func (l *Logger) Error(msg string, err error) {
	if err != nil {
		l.z.Error().Err(err).Msg(msg)
		return
	}
	l.z.Error().Msg(msg)
}

// Event logs a structured framework event: a module lifecycle transition, a
// router dispatch, an effect diff detection, keyed by kind and actor.
func (l *Logger) Event(kind string, actorID string, details string) {
	l.z.Info().Str("event", kind).Str("actor", actorID).Msg(details)
}

// Zerolog exposes the underlying logger for packages that want structured
// field builders beyond the convenience methods above.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.z
}
