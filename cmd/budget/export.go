package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"budget/internal/core"
	"budget/internal/export"
	applog "budget/internal/log"
)

func exportCmd() *cobra.Command {
	var (
		flags  filterFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered transactions to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := flags.filter()
			if err != nil {
				return err
			}
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(app)

			views, err := app.Services.Dashboard.ListTransactions(cmd.Context(), f)
			if err != nil {
				return err
			}
			settings, err := app.Services.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := export.WriteTransactionsXLSX(file, views, core.Summarize(views), settings.Currency); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			app.Logger.WithComponent(applog.ComponentExport).Info("Transactions exported",
				applog.FieldOperation, applog.OpExport,
				applog.FieldFilter, f.Key(),
				applog.FieldCount, len(views))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d transactions to %s\n", len(views), output)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "transactions.xlsx", "output file")
	return cmd
}
