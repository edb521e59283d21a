package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wordfall-io/wordfall/internal/rating"
)

// ManifestConfig holds the release manifest source.
// The daemon serves out of Path; the CLI falls back to URL when Path is
// unset or the file is missing.
type ManifestConfig struct {
	URL             string `yaml:"url"`
	Path            string `yaml:"path"`
	DefaultPlatform string `yaml:"default_platform"` // "ios" | "android"
	MinisignKey     string `yaml:"minisign_key,omitempty"`
}

// UpdatesConfig holds settings for update checking.
type UpdatesConfig struct {
	CheckOnStartup bool       `yaml:"check_on_startup"`
	CheckFrequency string     `yaml:"check_frequency"` // "every_launch" | "daily" | "weekly"
	LastChecked    *time.Time `yaml:"last_checked,omitempty"`
}

// TelemetryConfig holds analytics settings. Disabled by default; InstallID
// is the PostHog distinct ID.
type TelemetryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKey    string `yaml:"api_key,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	InstallID string `yaml:"install_id,omitempty"`
}

// ServerConfig holds daemon listen settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // 0 = dynamic allocation
}

// Settings represents global application settings.
// This corresponds to ~/.wordfall/settings.yaml.
type Settings struct {
	Version   int             `yaml:"version"`
	Manifest  ManifestConfig  `yaml:"manifest"`
	Updates   UpdatesConfig   `yaml:"updates"`
	Rating    rating.Policy   `yaml:"rating"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Manifest: ManifestConfig{
			URL:             "https://releases.wordfall.io/manifest.json",
			DefaultPlatform: "ios",
		},
		Updates: UpdatesConfig{
			CheckOnStartup: true,
			CheckFrequency: "daily",
			LastChecked:    nil,
		},
		Rating: rating.DefaultPolicy(),
		Telemetry: TelemetryConfig{
			Enabled:   false,
			InstallID: uuid.New().String(),
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 0,
		},
	}
}
