package config

import (
	"fmt"
	"log/slog"
	"strings"

	"sensei/pkg/models"

	"github.com/caarlos0/env/v9"
)

// ApplyEnv overrides cfg with any SENSEI_* environment variables that are
// set. Unset variables leave the loaded values alone.
func ApplyEnv(cfg *models.Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}

// ParseLogLevel maps a configured level name to a slog level. An empty name
// is info.
func ParseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (supported: debug, info, warn, error)", name)
	}
}
