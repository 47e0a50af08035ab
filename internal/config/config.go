package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	SSB      SSBConfig      `mapstructure:"ssb"`
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SSBConfig holds Statistics Norway API configuration
type SSBConfig struct {
	APIBaseURL        string        `mapstructure:"api_base_url"`
	Table             string        `mapstructure:"table"`
	Timeout           time.Duration `mapstructure:"timeout"`
	TypeDimension     string        `mapstructure:"type_dimension"`
	ContentsDimension string        `mapstructure:"contents_dimension"`
	TimeDimension     string        `mapstructure:"time_dimension"`
	ContentsCode      string        `mapstructure:"contents_code"`
	Format            string        `mapstructure:"format"`
}

// ServerConfig holds HTTP front-end configuration
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	PublicURL string `mapstructure:"public_url"`
}

// StorageConfig holds history persistence configuration
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	FilePath   string `mapstructure:"file_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
	MaxHistory int    `mapstructure:"max_history"`
}

// TelegramConfig holds Telegram front-end configuration
type TelegramConfig struct {
	BotToken   string `mapstructure:"bot_token"`
	ChatID     string `mapstructure:"chat_id"`
	Enabled    bool   `mapstructure:"enabled"`
	DigestCron string `mapstructure:"digest_cron"`
}

// ChartConfig holds chart rendering configuration
type ChartConfig struct {
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	SeriesLabel string `mapstructure:"series_label"`
	Format      string `mapstructure:"format"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("BOLIGPRIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// SSB defaults (table 07241, price index for existing dwellings)
	v.SetDefault("ssb.api_base_url", "https://data.ssb.no/api/v0/no")
	v.SetDefault("ssb.table", "07241")
	v.SetDefault("ssb.timeout", "30s")
	v.SetDefault("ssb.type_dimension", "Boligtype")
	v.SetDefault("ssb.contents_dimension", "ContentsCode")
	v.SetDefault("ssb.time_dimension", "Tid")
	v.SetDefault("ssb.contents_code", "KvPris")
	v.SetDefault("ssb.format", "json-stat2")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.public_url", "http://localhost:8080/")

	// Storage defaults
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file_path", "./data/history.json")
	v.SetDefault("storage.sqlite_path", "./data/boligpris.db")
	v.SetDefault("storage.max_history", 0)

	// Telegram defaults
	// Empty defaults register the keys so BOLIGPRIS_TELEGRAM_* env vars apply
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.digest_cron", "")

	// Chart defaults
	v.SetDefault("chart.width", 500)
	v.SetDefault("chart.height", 300)
	v.SetDefault("chart.series_label", "NOK")
	v.SetDefault("chart.format", "png")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate SSB config
	if c.SSB.APIBaseURL == "" {
		return errors.New("ssb.api_base_url is required")
	}
	if c.SSB.Table == "" {
		return errors.New("ssb.table is required")
	}
	if c.SSB.Timeout <= 0 {
		return errors.New("ssb.timeout must be positive")
	}
	if c.SSB.ContentsCode == "" {
		return errors.New("ssb.contents_code is required")
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	// Validate Storage config
	switch c.Storage.Backend {
	case "file":
		if c.Storage.FilePath == "" {
			return errors.New("storage.file_path is required for the file backend")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite backend")
		}
	default:
		return errors.New("storage.backend must be one of: file, sqlite")
	}
	if c.Storage.MaxHistory < 0 {
		return errors.New("storage.max_history must not be negative")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return errors.New("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return errors.New("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.DigestCron != "" {
			if _, err := cron.ParseStandard(c.Telegram.DigestCron); err != nil {
				return fmt.Errorf("telegram.digest_cron is invalid: %w", err)
			}
		}
	}

	// Validate Chart config
	if c.Chart.Width < 100 || c.Chart.Height < 100 {
		return errors.New("chart.width and chart.height must be at least 100")
	}
	if c.Chart.Format != "png" && c.Chart.Format != "svg" {
		return errors.New("chart.format must be one of: png, svg")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return errors.New("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return errors.New("logging.format must be one of: json, text")
	}

	return nil
}
