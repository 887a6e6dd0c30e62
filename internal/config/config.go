package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Kalshi   KalshiConfig   `mapstructure:"kalshi"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Pushover PushoverConfig `mapstructure:"pushover"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// KalshiConfig holds Kalshi API configuration
type KalshiConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WatchConfig holds the tracking and alerting behavior configuration
type WatchConfig struct {
	Keyword          string        `mapstructure:"keyword"`
	OpeningThreshold float64       `mapstructure:"opening_threshold"`
	DropThreshold    float64       `mapstructure:"drop_threshold"`
	ConfirmTicks     int           `mapstructure:"confirm_ticks"`
	AdmissionWindow  time.Duration `mapstructure:"admission_window"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	ErrorBackoff     time.Duration `mapstructure:"error_backoff"`
	AlertTitle       string        `mapstructure:"alert_title"`
}

// PushoverConfig holds Pushover notification configuration
type PushoverConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Token    string        `mapstructure:"token"`
	UserKey  string        `mapstructure:"user_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TelegramConfig holds the optional secondary Telegram channel configuration
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// StorageConfig holds the optional alert journal configuration
type StorageConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration from an optional YAML file and from environment
// variables. A .env file in the working directory is loaded first; secrets
// (Kalshi base URL, Pushover credentials) are normally supplied through the
// environment as KTA_KALSHI_BASE_URL, KTA_PUSHOVER_TOKEN, KTA_PUSHOVER_USER_KEY.
func Load(path string) (*Config, error) {
	// Missing .env is fine; the process may be configured by the host env.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("KTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional: a pure env-driven deployment has none.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
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
	// Kalshi defaults
	v.SetDefault("kalshi.base_url", "")
	v.SetDefault("kalshi.limit", 500)
	v.SetDefault("kalshi.timeout", "15s")

	// Watch defaults
	v.SetDefault("watch.keyword", "tennis")
	v.SetDefault("watch.opening_threshold", 0.65)
	v.SetDefault("watch.drop_threshold", 0.50)
	v.SetDefault("watch.confirm_ticks", 2)
	v.SetDefault("watch.admission_window", "30m")
	v.SetDefault("watch.poll_interval", "8s")
	v.SetDefault("watch.error_backoff", "10s")
	v.SetDefault("watch.alert_title", "🎾 Kalshi Tennis Alert")

	// Pushover defaults
	v.SetDefault("pushover.endpoint", "https://api.pushover.net")
	v.SetDefault("pushover.token", "")
	v.SetDefault("pushover.user_key", "")
	v.SetDefault("pushover.timeout", "10s")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")

	// Storage defaults
	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.db_path", "./data/alerts.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// Validate checks that all configuration values are valid. A missing
// Kalshi base URL or missing Pushover credentials is a startup-fatal
// condition, not a runtime one.
func (c *Config) Validate() error {
	// Validate Kalshi config
	if c.Kalshi.BaseURL == "" {
		return fmt.Errorf("kalshi.base_url is required")
	}
	if c.Kalshi.Limit < 1 || c.Kalshi.Limit > 1000 {
		return fmt.Errorf("kalshi.limit must be between 1 and 1000")
	}
	if c.Kalshi.Timeout < 1*time.Second {
		return fmt.Errorf("kalshi.timeout must be at least 1 second")
	}

	// Validate Watch config
	if c.Watch.Keyword == "" {
		return fmt.Errorf("watch.keyword is required")
	}
	if c.Watch.OpeningThreshold <= 0.0 || c.Watch.OpeningThreshold > 1.0 {
		return fmt.Errorf("watch.opening_threshold must be in (0.0, 1.0]")
	}
	if c.Watch.DropThreshold <= 0.0 || c.Watch.DropThreshold > 1.0 {
		return fmt.Errorf("watch.drop_threshold must be in (0.0, 1.0]")
	}
	if c.Watch.DropThreshold >= c.Watch.OpeningThreshold {
		return fmt.Errorf("watch.drop_threshold must be below watch.opening_threshold")
	}
	if c.Watch.ConfirmTicks < 1 {
		return fmt.Errorf("watch.confirm_ticks must be at least 1")
	}
	if c.Watch.AdmissionWindow < 1*time.Minute {
		return fmt.Errorf("watch.admission_window must be at least 1 minute")
	}
	if c.Watch.PollInterval < 1*time.Second {
		return fmt.Errorf("watch.poll_interval must be at least 1 second")
	}
	if c.Watch.ErrorBackoff < 1*time.Second {
		return fmt.Errorf("watch.error_backoff must be at least 1 second")
	}
	if c.Watch.AlertTitle == "" {
		return fmt.Errorf("watch.alert_title is required")
	}

	// Validate Pushover config
	if c.Pushover.Endpoint == "" {
		return fmt.Errorf("pushover.endpoint is required")
	}
	if c.Pushover.Token == "" {
		return fmt.Errorf("pushover.token is required")
	}
	if c.Pushover.UserKey == "" {
		return fmt.Errorf("pushover.user_key is required")
	}
	if c.Pushover.Timeout < 1*time.Second {
		return fmt.Errorf("pushover.timeout must be at least 1 second")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Storage config
	if c.Storage.Enabled && c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required when storage is enabled")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB < 1 {
			return fmt.Errorf("logging.max_size_mb must be at least 1")
		}
		if c.Logging.MaxBackups < 0 {
			return fmt.Errorf("logging.max_backups must not be negative")
		}
		if c.Logging.MaxAgeDays < 0 {
			return fmt.Errorf("logging.max_age_days must not be negative")
		}
	}

	return nil
}
