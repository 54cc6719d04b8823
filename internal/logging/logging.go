package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Setup creates a configured *slog.Logger writing to the given file path,
// sets it as the default, and returns it together with a close function.
// The UI owns the terminal, so logs never go to stdout/stderr; when the
// file cannot be opened the logger discards output.
// The level parameter accepts: "debug", "info", "warn", "error"
// (case-insensitive) and defaults to info when unrecognized.
func Setup(path string, level string) (*slog.Logger, func() error) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	var w io.Writer = io.Discard
	closeFn := func() error { return nil }

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				w = f
				closeFn = f.Close
			}
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closeFn
}

// DefaultLogPath returns the default log file location under the
// application config directory.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "stocktree.log")
	}
	return filepath.Join(home, ".config", "stocktree", "stocktree.log")
}
