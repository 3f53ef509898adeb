// Package config handles configuration loading for FinPulse.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	News   NewsConfig   `mapstructure:"news"   yaml:"news"`
	Market MarketConfig `mapstructure:"market" yaml:"market"`
	Chart  ChartConfig  `mapstructure:"chart"  yaml:"chart"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NewsConfig holds news fetch defaults and the user-adjustable bounds.
type NewsConfig struct {
	Query        string `mapstructure:"query"           yaml:"query"`
	Days         int    `mapstructure:"days"            yaml:"days"`
	MaxItems     int    `mapstructure:"max_items"       yaml:"max_items"`
	MinItemBound int    `mapstructure:"min_items_bound" yaml:"min_items_bound"`
	MaxItemBound int    `mapstructure:"max_items_bound" yaml:"max_items_bound"`
}

// MarketConfig holds Yahoo Finance client settings.
type MarketConfig struct {
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
	RatePerSec  int `mapstructure:"rate_per_sec"  yaml:"rate_per_sec"`
}

// ChartConfig holds chart rendering dimensions.
type ChartConfig struct {
	Width  int `mapstructure:"width"  yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finpulse/config.yaml (home directory)
//  3. /etc/finpulse/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINPULSE_<SECTION>_<KEY>, e.g., FINPULSE_SERVER_PORT.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finpulse"))
	v.AddConfigPath("/etc/finpulse")

	v.SetEnvPrefix("FINPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine: defaults plus env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("FINPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// DefaultQuery is the preset news search query.
const DefaultQuery = "stock market OR finance OR IPO OR NIFTY OR Sensex"

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8640)
	v.SetDefault("server.cors_origins", []string{"*"})

	// News defaults
	v.SetDefault("news.query", DefaultQuery)
	v.SetDefault("news.days", 7)
	v.SetDefault("news.max_items", 25)
	v.SetDefault("news.min_items_bound", 10)
	v.SetDefault("news.max_items_bound", 60)

	// Market data defaults
	v.SetDefault("market.cache_ttl_sec", 300) // 5 minutes
	v.SetDefault("market.rate_per_sec", 5)

	// Chart defaults
	v.SetDefault("chart.width", 560)
	v.SetDefault("chart.height", 220)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
