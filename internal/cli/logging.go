package cli

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w: warnings only, or everything
// down to debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
