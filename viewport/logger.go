package viewport

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the ambient logging seam the coordinator uses to report
// recovered scene panics and scene terminations. New falls back to a
// no-op Logger when Config.Logger is nil; NewZerologLogger provides a
// zerolog-backed implementation.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger builds a zerolog-backed Logger writing structured JSON
// lines to stderr.
func NewZerologLogger() Logger {
	return &zerologLogger{l: zerolog.New(os.Stderr).With().Timestamp().Logger()}
}

func (z *zerologLogger) Debugf(format string, args ...any) { z.l.Debug().Msgf(format, args...) }
func (z *zerologLogger) Warnf(format string, args ...any)  { z.l.Warn().Msgf(format, args...) }
func (z *zerologLogger) Errorf(format string, args ...any) { z.l.Error().Msgf(format, args...) }

// noopLogger discards everything; used as the zero-config default so tests
// don't need to wire a Logger.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
