package config

import (
	"github.com/garyjia/room-invoice-admin/internal/container"
)

// ToContainerConfig converts the file-based Config to the container's
// configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Billing: container.BillingConfig{
			BaseURL: c.Billing.BaseURL,
			Token:   c.Billing.Token,
			Timeout: c.Billing.Timeout,
		},
		Submission: container.SubmissionConfig{
			RefreshDelay:    c.Submission.RefreshDelay,
			RefreshInterval: c.Submission.RefreshInterval,
			RefreshTimeout:  c.Submission.RefreshTimeout,
		},
		Presentation: container.PresentationConfig{
			Locale:         c.Presentation.Locale,
			CurrencySymbol: c.Presentation.CurrencySymbol,
			DateLayout:     c.Presentation.DateLayout,
		},
		Notifications: container.NotificationConfig{
			Capacity: c.Notifications.Capacity,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
		},
	}
}
