// Package log configures the slog loggers used across irreduce.
//
// Every component logs through a child logger carrying a "section"
// attribute (for example "reduce.structs" or "delta"), so output from a
// single pass can be picked out of a verbose run.
package log

import (
	"io"
	"log/slog"
)

// SectionKey is the attribute naming the component that produced a record.
const SectionKey = "section"

// handlerOpts drops the time attribute so output is reproducible.
func handlerOpts(level slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}
}

// New creates a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, handlerOpts(level)))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Section returns a child of l tagged with the given section.
// A nil l yields a discarding logger.
func Section(l *slog.Logger, section string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With(slog.String(SectionKey, section))
}
