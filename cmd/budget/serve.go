package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	apphttp "budget/internal/http"
	applog "budget/internal/log"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			logger := app.Logger
			srv := apphttp.NewServer(app.Services, apphttp.Options{
				Addr:               ":" + app.Config.Port,
				RateLimitPerMinute: app.Config.RateLimitPerMinute,
				Logger:             logger,
				Ready:              app.Backend.Backend.Ping,
			})

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting budget server",
					applog.FieldOperation, applog.OpStartup,
					"port", app.Config.Port,
					"backend", app.Config.DataBackend,
					"events", app.Backend.Events != nil)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					logger.Error("Server error", applog.FieldError, err)
					return err
				}
			case <-ctx.Done():
				logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server shutdown error", applog.FieldError, err)
				return err
			}
			logger.Info("Server stopped gracefully")
			return nil
		},
	}
}
