package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName names the per-user configuration directory.
const AppName = "sensei"

var customConfigDir string

// SetCustomConfigDir overrides the configuration directory (--config-dir).
func SetCustomConfigDir(dir string) {
	customConfigDir = dir
}

// GetConfigDir returns the global configuration directory:
// $XDG_CONFIG_HOME/sensei, or ~/.config/sensei.
func GetConfigDir() (string, error) {
	if customConfigDir != "" {
		return customConfigDir, nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".config", AppName), nil
}
