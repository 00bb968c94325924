package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"pcb-inspector/config"
	"pcb-inspector/internal/infrastructure/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed the default accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}

		ctx := cmd.Context()
		db, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.RunMigrations(ctx, db); err != nil {
			return err
		}

		store := &storage.PGCredentialStore{DB: db, Cost: cfg.BcryptCost}
		if err := storage.Seed(ctx, store, storage.DefaultAccounts()); err != nil {
			return err
		}

		log.Println("Migrations applied")
		return nil
	},
}
