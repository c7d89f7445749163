package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the SQLite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.DataBackend != "sqlite" {
				return errors.New("migrate only applies to the sqlite backend")
			}

			if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
				return err
			}
			version, dirty, err := storage.MigrationVersion(cfg.SQLiteDBPath)
			if err != nil {
				return err
			}
			logger.Info("Migrations applied", "db_path", cfg.SQLiteDBPath, "version", version, "dirty", dirty)
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}
}
