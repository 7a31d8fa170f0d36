// Package container wires the invoice console: journal database, billing
// client, services, workers and notifiers, with ordered start and reverse
// teardown.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
type Config struct {
	Database      DatabaseConfig
	Billing       BillingConfig
	Submission    SubmissionConfig
	Presentation  PresentationConfig
	Notifications NotificationConfig
	Server        ServerConfig
}

// DatabaseConfig holds the submission journal settings. An empty Path
// disables the journal.
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// BillingConfig holds billing backend settings.
type BillingConfig struct {
	// BaseURL of the billing REST API
	BaseURL string

	// Token is the bearer token of the signed-in operator
	Token string

	// Timeout for one boundary call
	Timeout time.Duration
}

// SubmissionConfig holds post-submission refresh settings.
type SubmissionConfig struct {
	// RefreshDelay is the wait between a submission and the board reload
	RefreshDelay time.Duration

	// RefreshInterval reloads the board periodically; 0 disables it
	RefreshInterval time.Duration

	// RefreshTimeout bounds one reload
	RefreshTimeout time.Duration
}

// PresentationConfig holds display formatting settings.
type PresentationConfig struct {
	Locale         string
	CurrencySymbol string
	DateLayout     string
}

// NotificationConfig holds the notification feed settings.
type NotificationConfig struct {
	Capacity int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/invoices.db",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Billing: BillingConfig{
			BaseURL: "http://localhost:9999",
			Timeout: 30 * time.Second,
		},
		Submission: SubmissionConfig{
			RefreshDelay:   500 * time.Millisecond,
			RefreshTimeout: 30 * time.Second,
		},
		Presentation: PresentationConfig{
			Locale:         "vi-VN",
			CurrencySymbol: "₫",
			DateLayout:     "02/01/2006",
		},
		Notifications: NotificationConfig{
			Capacity: 100,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Billing.BaseURL == "" {
		return fmt.Errorf("billing.base_url is required")
	}
	if c.Billing.Timeout < 0 {
		return fmt.Errorf("billing.timeout cannot be negative")
	}
	if c.Submission.RefreshDelay < 0 {
		return fmt.Errorf("submission.refresh_delay cannot be negative")
	}
	if c.Submission.RefreshInterval < 0 {
		return fmt.Errorf("submission.refresh_interval cannot be negative")
	}
	return nil
}
