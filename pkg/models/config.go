package models

import "time"

// Config represents the application configuration.
type Config struct {
	// Remote API settings
	API APIConfig `json:"api" yaml:"api"`

	// Local download settings
	Download DownloadConfig `json:"download" yaml:"download"`

	// General application settings
	App AppConfig `json:"app" yaml:"app"`
}

// APIConfig describes how to reach the remote file-storage API.
type APIConfig struct {
	// Root is the base URL every relative API path is resolved against.
	Root string `json:"root" yaml:"root" env:"SENSEI_API_ROOT"`

	// Key is sent as "Authorization: ApiKey <key>" on every request.
	Key string `json:"key" yaml:"key" env:"SENSEI_API_KEY"`

	// Timeout bounds how long to wait for response headers (0 = no limit).
	Timeout time.Duration `json:"timeout" yaml:"timeout" env:"SENSEI_TIMEOUT"`
}

// DownloadConfig controls where and how files are written locally.
type DownloadConfig struct {
	// Destination is the local root directory; required only for downloads.
	Destination string `json:"destination" yaml:"destination" env:"SENSEI_DESTINATION"`

	// Overwrite replaces existing local files instead of skipping them.
	Overwrite bool `json:"overwrite" yaml:"overwrite" env:"SENSEI_OVERWRITE"`

	// ChunkSize is the streaming buffer size in bytes.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	LogLevel string `json:"log_level" yaml:"log_level" env:"SENSEI_LOG_LEVEL"` // "debug", "info", "warn", "error"
	Progress string `json:"progress"  yaml:"progress"`                         // "auto", "bar", "log", "none"
}

// Progress display modes.
const (
	ProgressAuto = "auto"
	ProgressBar  = "bar"
	ProgressLog  = "log"
	ProgressNone = "none"
)

// Redacted returns a copy of the configuration safe to print.
func (c Config) Redacted() Config {
	if c.API.Key != "" {
		c.API.Key = "********"
	}

	return c
}
