package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/core"
)

func seedCmd() *cobra.Command {
	var (
		months int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with sample categories and transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months < 1 {
				return fmt.Errorf("--months must be at least 1, got %d", months)
			}
			app, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(app)

			res, err := cli.Seed(cmd.Context(), app.Services, core.DateOf(time.Now()), months, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d categories and %d transactions\n", res.Categories, res.Transactions)
			return nil
		},
	}
	cmd.Flags().IntVar(&months, "months", 24, "number of months to generate, ending with the current one")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for amounts")
	return cmd
}
