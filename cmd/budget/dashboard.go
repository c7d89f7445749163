package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"budget/internal/core"
	"budget/internal/services"
)

func dashboardCmd() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the summary, expense breakdown and monthly comparison",
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

			settings, err := app.Services.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			d, err := app.Services.Dashboard.GetDashboard(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printDashboard(cmd.OutOrStdout(), f, d, settings.Currency)
		},
	}
	flags.register(cmd)
	return cmd
}

func printDashboard(out io.Writer, f core.Filter, d services.Dashboard, c core.Currency) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(out, "Filter: %s\n\n", f.Key())

	fmt.Fprintln(w, "Income\tExpense\tBalance\t")
	fmt.Fprintf(w, "%s\t%s\t%s\t\n",
		core.FormatAmount(d.Summary.TotalIncome, c),
		core.FormatAmount(d.Summary.TotalExpense, c),
		core.FormatAmount(d.Summary.Balance, c))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nExpenses by category")
	for _, b := range d.ExpensesByCategory {
		fmt.Fprintf(w, "%s\t%s\t\n", b.DisplayName(), core.FormatAmount(b.Total, c))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nMonthly")
	fmt.Fprintln(w, "Month\tIncome\tExpense\t")
	for _, m := range d.Monthly {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", m.Month, core.FormatAmount(m.Income, c), core.FormatAmount(m.Expense, c))
	}
	return w.Flush()
}
