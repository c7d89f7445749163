package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"budget/internal/core"
)

func currencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Show or change the display currency",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the display currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(app)

			settings, err := app.Services.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", settings.Currency, settings.Currency.Symbol())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set CURRENCY",
		Short:     "Change the display currency",
		Args:      cobra.ExactArgs(1),
		ValidArgs: currencyArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(app)

			settings, err := app.Services.Settings.UpdateCurrency(cmd.Context(), core.Currency(strings.ToUpper(strings.TrimSpace(args[0]))))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "display currency set to %s\n", settings.Currency)
			return nil
		},
	})
	return cmd
}

func currencyArgs() []string {
	var args []string
	for _, c := range core.Currencies() {
		args = append(args, string(c))
	}
	return args
}
