// Package config loads settings with Viper.
//
// Values come from defaults, then an optional bitmap-tools-mcp.yaml, then
// BITMAP_MCP_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the config file base name and the config directory name.
	AppName = "bitmap-tools-mcp"

	// EnvPrefix prefixes environment overrides, e.g. BITMAP_MCP_CAPTURE_SCALE.
	EnvPrefix = "BITMAP_MCP"
)

// Config represents the application configuration
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Capture  CaptureConfig `mapstructure:"capture"`
	Search   SearchConfig  `mapstructure:"search"`
}

// CaptureConfig selects the display used by screen tools.
type CaptureConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Display int     `mapstructure:"display"`
	Scale   float64 `mapstructure:"scale"` // pixels per point
}

// SearchConfig holds search defaults applied when a request leaves them out.
type SearchConfig struct {
	DefaultTolerance float64 `mapstructure:"default_tolerance"`
}

var (
	// DefaultConfig is used when nothing else is configured.
	DefaultConfig = Config{
		LogLevel: "info",
		Capture: CaptureConfig{
			Enabled: true,
			Display: 0,
			Scale:   1.0,
		},
		Search: SearchConfig{
			DefaultTolerance: 0.0,
		},
	}

	cfg *Config

	configPathOverride string
)

// SetConfigPath makes Init read exactly path instead of searching.
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init reads the configuration into the package state.
func Init() error {
	viper.SetConfigName(AppName)
	viper.SetConfigType("yaml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("log_level", DefaultConfig.LogLevel)
	viper.SetDefault("capture.enabled", DefaultConfig.Capture.Enabled)
	viper.SetDefault("capture.display", DefaultConfig.Capture.Display)
	viper.SetDefault("capture.scale", DefaultConfig.Capture.Scale)
	viper.SetDefault("search.default_tolerance", DefaultConfig.Search.DefaultTolerance)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// Validate rejects values the engine cannot use.
func (c *Config) Validate() error {
	if c.Capture.Scale < 1 {
		return fmt.Errorf("capture.scale must be at least 1, got %v", c.Capture.Scale)
	}
	if c.Capture.Display < 0 {
		return fmt.Errorf("capture.display must not be negative, got %d", c.Capture.Display)
	}
	if c.Search.DefaultTolerance < 0 || c.Search.DefaultTolerance > 1 {
		return fmt.Errorf("search.default_tolerance must be within [0, 1], got %v", c.Search.DefaultTolerance)
	}
	return nil
}

// Get returns the current configuration, or the defaults before Init.
func Get() *Config {
	if cfg == nil {
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set replaces the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// ConfigFileUsed reports the file Init read, or "" when only defaults applied.
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
