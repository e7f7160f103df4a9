package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/iliyamo/flight-booking-admin/internal/config"
	"github.com/iliyamo/flight-booking-admin/internal/database"
	"github.com/iliyamo/flight-booking-admin/internal/logger"
)

// server migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users, naves, flights and reservations tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg := config.Load()
		log := logger.New(cfg.Env, cfg.LogLevel)

		db, err := database.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema applied", "database", cfg.DBName)
		return nil
	},
}
