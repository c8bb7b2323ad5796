package app

import (
	"io"
	"log/slog"
)

// logLevels maps the Config.LogLevel strings the CLI accepts to slog levels.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the App's isolated logger from its Config. It never sets
// the global slog default, so concurrent Apps in tests keep their output
// apart. Unknown levels fall back to info; any format other than "text"
// gets the JSON handler, matching the CLI's default.
func newLogger(cfg *Config, outW io.Writer) *slog.Logger {
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(outW, opts))
	}
	return slog.New(slog.NewJSONHandler(outW, opts))
}
