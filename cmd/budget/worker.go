package main

import (
	"errors"

	"github.com/spf13/cobra"

	"budget/internal/core"
	applog "budget/internal/log"
	gsheet "budget/internal/sheets/google"
	"budget/internal/worker"
)

func workerCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Mirror transactions and monthly totals to Google Sheets",
		Long: `Keeps the configured spreadsheet in step with the store. The mirror is
rewritten on start, on every change event (when AMQP is configured) and on
SYNC_SCHEDULE.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer closeApp(app)

			cfg := app.Config
			if !cfg.SheetsEnabled() {
				return errors.New("worker needs GOOGLE_SPREADSHEET_ID")
			}

			mirror, err := gsheet.New(ctx, gsheet.Options{
				SpreadsheetID:     cfg.GoogleSpreadsheetID,
				TransactionsSheet: cfg.SheetsTransactionsName,
				MonthlySheet:      cfg.SheetsMonthlyName,
				CredentialsJSON:   cfg.GoogleServiceAccountJSON,
				CredentialsFile:   cfg.GoogleServiceAccountFile,
			})
			if err != nil {
				return err
			}

			store := app.Backend.Backend
			w := worker.NewSyncWorker(store, store, mirror, core.Currency(cfg.DefaultCurrency))
			logger := app.Logger.WithComponent(applog.ComponentWorker)

			if once {
				return w.SyncAll(ctx)
			}

			var source worker.ChangeSource
			if app.Backend.Events != nil {
				source = app.Backend.Events
			} else {
				logger.Info("AMQP not configured, syncing on schedule only")
			}

			logger.Info("Starting budget worker", "schedule", cfg.SyncSchedule)
			if err := w.Run(ctx, source, cfg.SyncSchedule); err != nil {
				return err
			}
			logger.Info("Worker stopped gracefully")
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "sync once and exit")
	return cmd
}
