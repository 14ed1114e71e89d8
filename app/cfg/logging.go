package cfg

import (
	"io"
	"log/slog"
)

// SetupLogging installs the process-wide slog handler.
func SetupLogging(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
