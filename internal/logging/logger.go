// Package logging builds the slog loggers shared by the CLI and the SDK.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the standard diagnostic logger at the given level.
// Diagnostics go to stderr; stdout is reserved for command output.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: normalizeKeys,
	}))
}

// normalizeKeys maps the "error" key to "err" so log filters can rely
// on a single spelling.
func normalizeKeys(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// NewNop returns a logger that discards everything. It is the default
// for SDK consumers that pass no logger of their own.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
