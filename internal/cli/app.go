// Package cli wires configuration, logging, storage and services for the
// budget commands.
package cli

import (
	"context"
	"fmt"

	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/core"
	apphttp "budget/internal/http"
	applog "budget/internal/log"
	"budget/internal/services"
)

// App is everything a command needs once startup succeeded.
type App struct {
	Config   *config.Config
	Logger   *applog.Logger
	Backend  *backend.BackendResult
	Services apphttp.Services
}

// LoadConfig loads .env, then the environment and the optional config file,
// and validates the result.
func LoadConfig(configFile string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and makes it the slog default.
func SetupLogger(cfg *config.Config) (*applog.Logger, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := applog.New(applog.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)
	return logger, nil
}

// Bootstrap opens the configured backend and builds the services on top of it.
// The caller must Close the app.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	currency, err := core.ParseCurrency(cfg.DefaultCurrency)
	if err != nil {
		_ = result.Cleanup()
		return nil, err
	}

	store, events := result.Backend, result.Publisher()
	return &App{
		Config:  cfg,
		Logger:  logger,
		Backend: result,
		Services: apphttp.Services{
			Transactions: services.NewTransactionService(store, store, events, nil),
			Categories:   services.NewCategoryService(store, events, nil),
			Settings:     services.NewSettingsService(store, currency, events, nil),
			Dashboard:    services.NewDashboardService(store),
		},
	}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	if a.Backend == nil || a.Backend.Cleanup == nil {
		return nil
	}
	return a.Backend.Cleanup()
}
