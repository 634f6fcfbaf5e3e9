package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"sensei/internal/api"
	"sensei/pkg/models"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "config.yaml"

// ErrConfigNotFound is returned by LoadConfig when no search path has a file.
var ErrConfigNotFound = errors.New("no config file found")

const (
	DefaultAPIRoot     = api.DefaultRoot
	DefaultDestination = "./sensei-data"
	DefaultTimeout     = 30 * time.Second
	DefaultChunkSize   = 10240
)

// LoadConfig loads configuration from the standard search paths. Fields
// missing from the file keep their default values.
func LoadConfig() (*models.Config, error) {
	// Search for config file in order:
	// 1. Custom config dir (if set)
	// 2. Global config directory
	// 3. Current directory
	configPaths := getConfigSearchPaths()

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return nil, fmt.Errorf("%w in search paths: %v", ErrConfigNotFound, configPaths)
}

// SaveConfig saves configuration to the appropriate location.
func SaveConfig(cfg *models.Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold an API key.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *models.Config {
	return &models.Config{
		API: models.APIConfig{
			Root:    DefaultAPIRoot,
			Key:     "",
			Timeout: DefaultTimeout,
		},
		Download: models.DownloadConfig{
			Destination: DefaultDestination,
			Overwrite:   false,
			ChunkSize:   DefaultChunkSize,
		},
		App: models.AppConfig{
			LogLevel: "info",
			Progress: models.ProgressAuto,
		},
	}
}

// CreateDefaultConfig creates and saves a default configuration.
func CreateDefaultConfig() error {
	return SaveConfig(GetDefaultConfig())
}

// getConfigSearchPaths returns the list of paths to search for config files.
func getConfigSearchPaths() []string {
	var paths []string

	if customConfigDir != "" {
		paths = append(paths, filepath.Join(customConfigDir, ConfigFileName))
	}

	if globalConfigDir, err := GetConfigDir(); err == nil {
		paths = append(paths, filepath.Join(globalConfigDir, ConfigFileName))
	}

	paths = append(paths, ConfigFileName)

	return paths
}

// GetConfigFilePath returns the path where config is saved.
func GetConfigFilePath() (string, error) {
	if customConfigDir != "" {
		return filepath.Join(customConfigDir, ConfigFileName), nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ConfigFileName), nil
}

// loadConfigFromFile loads configuration from a specific file on top of the
// defaults.
func loadConfigFromFile(configPath string) (*models.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// ValidateConfig checks the configuration for values the client cannot use.
func ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := validateAPIConfig(&cfg.API); err != nil {
		return fmt.Errorf("api configuration error: %w", err)
	}

	if cfg.Download.ChunkSize <= 0 {
		return fmt.Errorf("download configuration error: chunk_size must be positive, got %d", cfg.Download.ChunkSize)
	}

	switch cfg.App.Progress {
	case models.ProgressAuto, models.ProgressBar, models.ProgressLog, models.ProgressNone, "":
	default:
		return fmt.Errorf("app configuration error: invalid progress mode %q (supported: auto, bar, log, none)",
			cfg.App.Progress)
	}

	if _, err := ParseLogLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("app configuration error: %w", err)
	}

	return nil
}

func validateAPIConfig(api *models.APIConfig) error {
	if api.Root == "" {
		return fmt.Errorf("root is required")
	}

	u, err := url.Parse(api.Root)
	if err != nil {
		return fmt.Errorf("invalid root %q: %w", api.Root, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("root must be an absolute http(s) URL, got %q", api.Root)
	}

	if api.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", api.Timeout)
	}

	return nil
}
