package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/config"
	"github.com/garyjia/room-invoice-admin/internal/container"
	"github.com/garyjia/room-invoice-admin/internal/infrastructure/notify"
	"github.com/garyjia/room-invoice-admin/pkg/utils"
)

var version = "1.0.0"

var (
	configPath string
	app        *container.Container
	appCfg     *config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "invoicectl",
	Short: "Manage rental room invoices from the command line",
	Long: `invoicectl talks to the billing backend the admin console uses.

It lists invoices with their rooms, exports the list to a spreadsheet and
creates or updates invoices, reconciling note attachments the same way the
console editor does.

The bearer token is read from BILLING_TOKEN (or a .env file).`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().Bool("no-journal", false, "Do not record submissions in the local journal")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	appCfg = cfg

	// keep stdout for command output
	logCfg := utils.LoggerConfig{Level: cfg.Logger.Level, OutputPath: cfg.Logger.OutputPath, Format: cfg.Logger.Format}
	if logCfg.OutputPath == "" || logCfg.OutputPath == "stdout" {
		logCfg.OutputPath = "stderr"
	}
	logger, err = utils.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	containerCfg := cfg.ToContainerConfig()
	if noJournal, _ := cmd.Flags().GetBool("no-journal"); noJournal {
		containerCfg.Database.Path = ""
	}

	app, err = container.NewContainer(containerCfg, logger,
		container.WithNotifier(notify.NewConsole(cmd.OutOrStdout())))
	if err != nil {
		return err
	}
	return app.Start(context.Background())
}

func teardown(cmd *cobra.Command, args []string) error {
	if app == nil {
		return nil
	}
	err := app.Close()
	_ = logger.Sync()
	return err
}
