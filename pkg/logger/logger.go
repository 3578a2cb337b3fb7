package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// NewHandler builds the JSON slog handler the whole service logs through.
// The level comes from config, defaulting to info.
func NewHandler(opts *slog.HandlerOptions) slog.Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{
			Level: parseLevel(viper.GetString("logger.level")),
		}
	}

	return slog.NewJSONHandler(os.Stdout, opts)
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
