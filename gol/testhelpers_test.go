package gol

import (
	"io"
	"log/slog"
)

// noopLogger is a slog.Logger that discards everything, used by tests that
// only care about side effects on the Store, not log output.
func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
