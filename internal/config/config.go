package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Billing       BillingConfig      `mapstructure:"billing"`
	Submission    SubmissionConfig   `mapstructure:"submission"`
	Presentation  PresentationConfig `mapstructure:"presentation"`
	Export        ExportConfig       `mapstructure:"export"`
	Notifications NotifyConfig       `mapstructure:"notifications"`
	Logger        LoggerConfig       `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds the submission journal configuration. An empty path
// turns the journal off.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// BillingConfig holds billing backend configuration
type BillingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SubmissionConfig holds post-submission refresh configuration
type SubmissionConfig struct {
	RefreshDelay    time.Duration `mapstructure:"refresh_delay"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefreshTimeout  time.Duration `mapstructure:"refresh_timeout"`
}

// PresentationConfig holds display formatting configuration
type PresentationConfig struct {
	Locale         string `mapstructure:"locale"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DateLayout     string `mapstructure:"date_layout"`
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// NotifyConfig holds notification feed configuration
type NotifyConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load reads configuration from the YAML file at configPath, a .env file in
// the working directory and environment variables, in increasing priority.
// A missing config file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	// Journal defaults
	v.SetDefault("database.path", "data/invoices.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// Billing defaults
	v.SetDefault("billing.base_url", "http://localhost:9999")
	v.SetDefault("billing.timeout", 30*time.Second)

	// Submission defaults
	v.SetDefault("submission.refresh_delay", 500*time.Millisecond)
	v.SetDefault("submission.refresh_interval", time.Duration(0))
	v.SetDefault("submission.refresh_timeout", 30*time.Second)

	// Presentation defaults
	v.SetDefault("presentation.locale", "vi-VN")
	v.SetDefault("presentation.currency_symbol", "₫")
	v.SetDefault("presentation.date_layout", "02/01/2006")

	v.SetDefault("export.output_dir", "exports")
	v.SetDefault("notifications.capacity", 100)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("billing.base_url", "BILLING_BASE_URL")
	v.BindEnv("billing.token", "BILLING_TOKEN")
	v.BindEnv("database.path", "INVOICE_DB_PATH")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Billing.BaseURL == "" {
		return fmt.Errorf("billing.base_url is required")
	}
	if u, err := url.Parse(c.Billing.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("billing.base_url must be an absolute url: %q", c.Billing.BaseURL)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Submission.RefreshDelay < 0 {
		return fmt.Errorf("submission.refresh_delay cannot be negative")
	}
	if c.Submission.RefreshInterval < 0 {
		return fmt.Errorf("submission.refresh_interval cannot be negative")
	}

	if c.Notifications.Capacity < 0 {
		return fmt.Errorf("notifications.capacity cannot be negative")
	}

	return nil
}
