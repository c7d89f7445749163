package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/core"
	applog "budget/internal/log"
)

var (
	cfgFile string
	version = "dev"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "budget",
		Short:         "Household budget tracker",
		Long:          "Record income and expenses, organize them by category and review totals per period.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json); environment variables take precedence")

	root.AddCommand(
		serveCmd(),
		workerCmd(),
		migrateCmd(),
		seedCmd(),
		dashboardCmd(),
		exportCmd(),
		currencyCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for rejected input and 1 for everything else.
func exitCode(err error) int {
	if core.IsValidation(err) {
		return 2
	}
	return 1
}

// loadConfig reads the configuration and installs the logger.
func loadConfig() (*config.Config, *applog.Logger, error) {
	cfg, err := cli.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.SetupLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// bootstrap loads the configuration and opens the backend. The returned app
// must be closed by the caller.
func bootstrap(ctx context.Context) (*cli.App, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cli.Bootstrap(ctx, cfg, logger)
}

func closeApp(app *cli.App) {
	if err := app.Close(); err != nil {
		app.Logger.Error("Failed to release backend", applog.FieldError, err)
	}
}
