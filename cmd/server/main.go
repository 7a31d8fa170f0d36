package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/config"
	"github.com/garyjia/room-invoice-admin/internal/container"
	httpapi "github.com/garyjia/room-invoice-admin/internal/interfaces/http"
	"github.com/garyjia/room-invoice-admin/pkg/utils"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting room invoice admin console",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("billing_base_url", cfg.Billing.BaseURL))

	if cfg.Billing.Token == "" {
		logger.Warn("No billing token configured, boundary calls will be rejected until one is set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := app.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Container shutdown error", zap.Error(err))
		}
	}()

	// Prime the board so the first cached read has data
	board := app.Lists().LoadAll(ctx)
	logger.Info("Initial invoice board loaded",
		zap.Int("invoices", len(board.Invoices)),
		zap.Int("rooms", len(board.Rooms)),
		zap.String("error", board.Error))

	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpapi.Dependencies{
		Lists:       app.Lists(),
		Editor:      app.Editor(),
		Submissions: app.Submissions(),
		Journal:     app.Journal(),
		Feed:        app.Feed(),
		Exporter:    app.Exporter(),
		Mapper:      app.Mapper(),
	}, app.ServiceLogger())

	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server exited")
}
