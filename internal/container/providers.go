package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/application/service"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/export"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/external/billing"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/notify"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/worker"
	"github.com/garyjia/room-invoice-admin/internal/presentation"
	"github.com/garyjia/room-invoice-admin/pkg/database"
)

// JournalBundle holds the journal database and its repository.
type JournalBundle struct {
	DB         *database.DB
	Repository port.SubmissionRepository
}

// BillingBundle holds the billing session and client.
type BillingBundle struct {
	Session *billing.Session
	Client  *billing.Client
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Lists       service.ListService
	Editor      service.EditorService
	Submissions service.SubmissionService
}

// ProvideJournal opens the submission journal and runs its migrations.
// It returns nil when the journal is disabled.
func ProvideJournal(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*JournalBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Path == "" {
		logger.Info("Submission journal disabled")
		return nil, nil
	}

	db, err := sqlite.Open(ctx, database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &JournalBundle{
		DB:         db,
		Repository: sqlite.NewSubmissionRepository(db, logger),
	}, nil
}

// ProvideBilling creates the session and the billing client. onExpired runs
// once each time the session is dropped.
func ProvideBilling(cfg *BillingConfig, onExpired func(), logger *zap.Logger) (*BillingBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("billing config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	session := billing.NewSession(cfg.Token, onExpired, logger)
	client := billing.NewClient(billing.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}, session, logger)

	return &BillingBundle{
		Session: session,
		Client:  client,
	}, nil
}

// ProvideNotifier creates the notification feed and the notifier services
// report to. Extra notifiers receive every message as well.
func ProvideNotifier(cfg *NotificationConfig, extra []port.Notifier, logger *zap.Logger) (*notify.Feed, port.Notifier) {
	feed := notify.NewFeed(cfg.Capacity, logger)
	if len(extra) == 0 {
		return feed, feed
	}
	return feed, append(notify.Multi{feed}, extra...)
}

// ProvidePresentation creates the mapper and the spreadsheet exporter.
func ProvidePresentation(cfg *PresentationConfig, logger *zap.Logger) (*presentation.Mapper, *export.ExcelExporter) {
	mapper := presentation.NewMapper(presentation.Config{
		Locale:         cfg.Locale,
		CurrencySymbol: cfg.CurrencySymbol,
		DateLayout:     cfg.DateLayout,
	})
	return mapper, export.NewExcelExporter(mapper, logger)
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Gateway   port.InvoiceGateway
	Journal   port.SubmissionRepository
	Notifier  port.Notifier
	SubmitCfg *SubmissionConfig
	Logger    *zap.Logger
}

// ProvideServices creates the application services and the refresh worker
// that reloads the board after each submission.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, *worker.RefreshWorker, error) {
	if deps == nil {
		return nil, nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Gateway == nil {
		return nil, nil, fmt.Errorf("invoice gateway is required")
	}
	if deps.Notifier == nil {
		return nil, nil, fmt.Errorf("notifier is required")
	}
	if deps.Logger == nil {
		return nil, nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	lists := service.NewListService(deps.Gateway, serviceLogger)
	editor := service.NewEditorService(lists, serviceLogger)

	refreshCfg := worker.DefaultRefreshConfig()
	if deps.SubmitCfg != nil {
		refreshCfg.Delay = deps.SubmitCfg.RefreshDelay
		refreshCfg.Interval = deps.SubmitCfg.RefreshInterval
		if deps.SubmitCfg.RefreshTimeout > 0 {
			refreshCfg.Timeout = deps.SubmitCfg.RefreshTimeout
		}
	}
	refresher := worker.NewRefreshWorker(refreshCfg, lists, deps.Logger)

	submissions := service.NewSubmissionService(
		deps.Gateway,
		deps.Journal,
		deps.Notifier,
		editor,
		refresher,
		serviceLogger,
	)

	return &ServiceBundle{
		Lists:       lists,
		Editor:      editor,
		Submissions: submissions,
	}, refresher, nil
}

// ProvideWorkers registers the background workers. They are not started.
func ProvideWorkers(refresher *worker.RefreshWorker, logger *zap.Logger) (*worker.Manager, error) {
	if refresher == nil {
		return nil, fmt.Errorf("refresh worker is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	manager := worker.NewManager(logger)
	manager.Register(refresher)
	return manager, nil
}
