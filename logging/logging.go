// Package logging builds the slog logger of the command line tool from the
// configured level and format.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
)

// Supported log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel parses a case-insensitive level name: debug, info, warn/warning
// or error. An empty name is info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Newf(errors.CodeInvalidConfig, "unknown log level %q", level)
	}
}

// New creates a logger writing to w. Debug logs carry their source location.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown log format %q", format)
	}
}
