package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/application/service"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/export"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/external/billing"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/notify"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/worker"
	"github.com/garyjia/room-invoice-admin/internal/presentation"
	"github.com/garyjia/room-invoice-admin/pkg/database"
)

// Container manages all application dependencies and lifecycle.
type Container struct {
	config *Config
	logger *zap.Logger
	extra  []port.Notifier

	// Infrastructure
	journalDB *database.DB
	journal   port.SubmissionRepository
	session   *billing.Session
	client    *billing.Client
	feed      *notify.Feed
	notifier  port.Notifier
	mapper    *presentation.Mapper
	exporter  *export.ExcelExporter

	// Application
	services  *ServiceBundle
	refresher *worker.RefreshWorker

	// Workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// Option customises a Container.
type Option func(*Container)

// WithNotifier sends every submission notification to n in addition to the feed.
func WithNotifier(n port.Notifier) Option {
	return func(c *Container) {
		c.extra = append(c.extra, n)
	}
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Container{
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start initializes all components in dependency order: journal, feedback,
// billing client, services, workers.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initJournal(); err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	c.feed, c.notifier = ProvideNotifier(&c.config.Notifications, c.extra, c.logger)
	c.mapper, c.exporter = ProvidePresentation(&c.config.Presentation, c.logger)

	if err := c.initBilling(); err != nil {
		return fmt.Errorf("failed to initialize billing client: %w", err)
	}
	c.logger.Info("Billing client initialized", zap.String("base_url", c.config.Billing.BaseURL))

	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	if err := c.initWorkers(); err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	c.logger.Info("Workers initialized and started", zap.Int("count", c.workers.Count()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close stops workers, waits for scheduled refreshes and closes the journal.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	if c.cancel != nil {
		c.cancel()
	}

	if c.journalDB != nil {
		if err := c.journalDB.Close(); err != nil {
			c.logger.Error("Failed to close journal database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if err := errors.Join(errs...); err != nil {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return err
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	switch {
	case c.config.Database.Path == "":
		status.Components["journal"] = ComponentHealth{Healthy: true, Message: "disabled"}
	case c.journalDB == nil:
		status.Components["journal"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	default:
		if err := c.journalDB.Ping(); err != nil {
			status.Components["journal"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["journal"] = ComponentHealth{Healthy: true}
		}
	}

	if c.workers != nil {
		status.Components["workers"] = ComponentHealth{
			Healthy: c.workers.IsRunning(),
			Message: fmt.Sprintf("worker count: %d", c.workers.Count()),
		}
		if !c.workers.IsRunning() {
			status.Overall = false
		}
	} else {
		status.Components["workers"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.session != nil && c.session.Token() == "" {
		status.Components["session"] = ComponentHealth{Healthy: false, Message: "signed out"}
	} else {
		status.Components["session"] = ComponentHealth{Healthy: c.session != nil}
	}

	return status
}

func (c *Container) initJournal() error {
	bundle, err := ProvideJournal(c.ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	if bundle == nil {
		return nil
	}
	c.journalDB = bundle.DB
	c.journal = bundle.Repository
	c.logger.Info("Submission journal initialized", zap.String("path", c.config.Database.Path))
	return nil
}

func (c *Container) initBilling() error {
	bundle, err := ProvideBilling(&c.config.Billing, c.feed.SessionExpired, c.logger)
	if err != nil {
		return err
	}
	c.session = bundle.Session
	c.client = bundle.Client
	return nil
}

func (c *Container) initServices() error {
	services, refresher, err := ProvideServices(&ServiceDeps{
		Gateway:   c.client,
		Journal:   c.journal,
		Notifier:  c.notifier,
		SubmitCfg: &c.config.Submission,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	c.refresher = refresher
	return nil
}

func (c *Container) initWorkers() error {
	workers, err := ProvideWorkers(c.refresher, c.logger)
	if err != nil {
		return err
	}
	c.workers = workers

	if err := c.workers.StartAll(c.ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	return nil
}

// Lists returns the list/refresh orchestrator.
func (c *Container) Lists() service.ListService {
	return c.services.Lists
}

// Editor returns the invoice editor.
func (c *Container) Editor() service.EditorService {
	return c.services.Editor
}

// Submissions returns the submission controller.
func (c *Container) Submissions() service.SubmissionService {
	return c.services.Submissions
}

// Journal returns the submission journal, nil when disabled.
func (c *Container) Journal() port.SubmissionRepository {
	return c.journal
}

// Feed returns the notification feed.
func (c *Container) Feed() *notify.Feed {
	return c.feed
}

// Mapper returns the presentation mapper.
func (c *Container) Mapper() *presentation.Mapper {
	return c.mapper
}

// Exporter returns the spreadsheet exporter.
func (c *Container) Exporter() *export.ExcelExporter {
	return c.exporter
}

// Refresher returns the refresh worker.
func (c *Container) Refresher() *worker.RefreshWorker {
	return c.refresher
}

// Session returns the billing session.
func (c *Container) Session() *billing.Session {
	return c.session
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// ServiceLogger returns the container's logger in the key/value form the
// application and HTTP layers take.
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
