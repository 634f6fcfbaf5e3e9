package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"sensei/internal/api"
	"sensei/internal/auth"
	"sensei/internal/config"
	"sensei/internal/progress"
	"sensei/pkg/interfaces"
	"sensei/pkg/models"

	"github.com/spf13/pflag"
)

var errMissingAPIKey = errors.New("no API key configured: pass --api-key or set SENSEI_API_KEY")

// loadEffectiveConfig merges defaults, the config file, SENSEI_* variables
// and command-line flags, in increasing order of precedence.
func loadEffectiveConfig(fs *pflag.FlagSet) (*models.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, err
		}

		slog.Debug("No config file found, using defaults", "error", err)

		cfg = config.GetDefaultConfig()
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// --debug wins over the configured level.
	if debugMode, _ := fs.GetBool("debug"); !debugMode {
		level, _ := config.ParseLogLevel(cfg.App.LogLevel)
		logLevel.Set(level)
	}

	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg. Flags a command does not
// define are ignored.
func applyFlags(cfg *models.Config, fs *pflag.FlagSet) error {
	changed := func(name string) bool {
		return fs.Lookup(name) != nil && fs.Changed(name)
	}

	var err error

	if changed("api-key") {
		if cfg.API.Key, err = fs.GetString("api-key"); err != nil {
			return err
		}
	}

	if changed("api-root") {
		if cfg.API.Root, err = fs.GetString("api-root"); err != nil {
			return err
		}
	}

	if changed("timeout") {
		if cfg.API.Timeout, err = fs.GetDuration("timeout"); err != nil {
			return err
		}
	}

	if changed("dest") {
		if cfg.Download.Destination, err = fs.GetString("dest"); err != nil {
			return err
		}
	}

	if changed("overwrite") {
		if cfg.Download.Overwrite, err = fs.GetBool("overwrite"); err != nil {
			return err
		}
	}

	if changed("no-progress") {
		noProgress, err := fs.GetBool("no-progress")
		if err != nil {
			return err
		}

		if noProgress {
			cfg.App.Progress = models.ProgressNone
		}
	}

	return nil
}

// newAPIClient builds an authenticated client, prompting for the API key on
// a terminal when none is configured.
func newAPIClient(cfg *models.Config) (*api.Client, error) {
	key := cfg.API.Key
	if key == "" {
		if !stdinIsTerminal() {
			return nil, errMissingAPIKey
		}

		var err error
		if key, err = promptAPIKey(); err != nil {
			return nil, fmt.Errorf("failed to read API key: %w", err)
		}
	}

	httpClient, err := auth.NewClient(key, cfg.API.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return api.NewClient(httpClient, cfg.API.Root).WithLogger(slog.Default()), nil
}

func newProgressReporter(cfg *models.Config, w io.Writer) (interfaces.ProgressReporter, error) {
	return progress.New(cfg.App.Progress, w, slog.Default())
}

// explainError adds a hint to errors the user can fix from the command line.
func explainError(err error) error {
	switch {
	case errors.Is(err, api.ErrAuthentication):
		return fmt.Errorf("%w\nhint: pass a valid key with --api-key or set SENSEI_API_KEY", err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w\nhint: choose a writable destination with --dest", err)
	default:
		return err
	}
}
