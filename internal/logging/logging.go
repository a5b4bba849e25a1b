// Package logging builds the slog logger shared by every component.
package logging

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// Options selects the handler.
type Options struct {
	// Debug lowers the level from warn to debug.
	Debug bool
	// JSON switches from colored text to JSON lines.
	JSON bool
	// NoColor disables ANSI colors in text mode.
	NoColor bool
}

// New returns a logger writing to w.
// Logs go to stderr in the CLI so they never mix with command output.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
			NoColor:    opts.NoColor,
		})
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything. Used as the zero-value default.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
