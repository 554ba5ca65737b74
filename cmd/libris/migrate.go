package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/libris-io/libris/config"
	"github.com/libris-io/libris/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the metadata tables",
	Long: `Connect to the configured database, run migrations, and validate the
resulting schema without starting the server.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	// Connect migrates and validates as part of setup.
	_, cleanup, err := database.Connect(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	cleanup()

	slog.Info("migration complete",
		"type", cfg.Database.Type,
		"books", cfg.Database.Tables.Books,
		"users", cfg.Database.Tables.Users,
	)
	return nil
}
