/*
PURPOSE:
  Provides a structured logger for tfplayer.
  Wraps slog for consistent diagnostics.

REQUIREMENTS:
  User-specified:
  - stdout carries only graph listings and result values.

  Implementation-discovered:
  - Diagnostics therefore go to stderr.
  - --verbose lowers the level to Debug.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).

USAGE:
  output.Logger.Info("message", "key", "value")
*/

package output

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

func init() {
	Logger = NewLogger(os.Stderr, false)
}

// NewLogger builds a text logger writing to w, at Debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetLogger allows overriding the default logger (e.g. for testing or config changes)
func SetLogger(l *slog.Logger) {
	Logger = l
}
