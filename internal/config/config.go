// Package config loads service configuration from config.yaml and
// SCANPREP_* environment variables via viper. The defaults mirror the
// values the service has always shipped with; the config file is optional.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`

	// Boundary defaults for the two operations. The core takes explicit
	// configuration on every call; these are what the HTTP layer fills in
	// when a request omits a parameter.
	DefaultThreshold       int     `mapstructure:"default_threshold"`
	DefaultMinLineLength   float64 `mapstructure:"default_min_line_length"`
	DefaultMaxLineGap      float64 `mapstructure:"default_max_line_gap"`
	HorizontalToleranceDeg float64 `mapstructure:"horizontal_tolerance_deg"`
	FallbackToAnyLine      bool    `mapstructure:"fallback_to_any_line"`

	// Background is the fill color for canvas exposed by rotation, as a
	// hex string such as "#FFFFFF".
	Background string `mapstructure:"background"`

	PdftoppmPath string `mapstructure:"pdftoppm_path"`
	PdfDPI       int    `mapstructure:"pdf_dpi"`
}

// Load reads config.yaml from the given directory ("." when empty) and
// applies SCANPREP_* environment overrides. A missing config file is not
// an error; a malformed one is.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("max_upload_bytes", 10*1024*1024)
	v.SetDefault("default_threshold", 128)
	v.SetDefault("default_min_line_length", 50)
	v.SetDefault("default_max_line_gap", 20)
	v.SetDefault("horizontal_tolerance_deg", 20)
	v.SetDefault("fallback_to_any_line", false)
	v.SetDefault("background", "#FFFFFF")
	v.SetDefault("pdftoppm_path", "pdftoppm")
	v.SetDefault("pdf_dpi", 200)

	v.SetEnvPrefix("SCANPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// BackgroundColor parses the configured hex background into a color.
func (c *Config) BackgroundColor() (color.Color, error) {
	parsed, err := colorful.Hex(c.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", c.Background, err)
	}
	return parsed, nil
}
