package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// LogConfig selects the level and format of the process logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config holds all runtime configuration for gedview.
// Values are populated from .gedview.yaml, GEDVIEW_* env vars, and CLI flags.
type Config struct {
	GedcomDir    string        `mapstructure:"gedcom_dir"`
	Addr         string        `mapstructure:"addr"`
	Workers      int           `mapstructure:"workers"`
	PrivacyYears int           `mapstructure:"privacy_years"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	Watch        bool          `mapstructure:"watch"`
	Log          LogConfig     `mapstructure:"log"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("gedcom_dir", "gedcom")
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("workers", 4)
	viper.SetDefault("privacy_years", 90)
	viper.SetDefault("fetch_timeout", 30*time.Second)
	viper.SetDefault("watch", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.PrivacyYears < 0 {
		return Config{}, fmt.Errorf("privacy_years must not be negative, got %d", cfg.PrivacyYears)
	}
	return cfg, nil
}
