package main

import (
	"github.com/spf13/cobra"

	"github.com/joestump/trail-mix/internal/config"
	"github.com/joestump/trail-mix/internal/db"
	"github.com/joestump/trail-mix/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			logging.Setup("trail-mix", cfg.Verbose)

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			logging.For("migrate").WithField("driver", cfg.DB.Driver).Info("migrations complete")
			return nil
		},
	}
}
