// Package logging configures the command line logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing to w. Diagnostics go to stderr so
// command output on stdout stays machine readable. The "error" key is
// shortened to "err".
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// Level returns the debug level when verbose is set, info otherwise.
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
