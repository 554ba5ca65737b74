package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/libris-io/libris/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "libris",
	Short:   "Library content server with remote asset storage",
	Long: `Libris is a library content server: authenticated users upload book
records with a cover image and a document, assets are pushed to S3-compatible
object storage, and metadata is kept in SQLite or PostgreSQL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
			files = append(files, configFile)
		}

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (default: sqlite, env: LIBRIS_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: libris.db, env: LIBRIS_DATABASE_DSN)")
	rootCmd.PersistentFlags().String("staging-dir", "", "upload staging directory (default: ./staging, env: LIBRIS_SERVICE_STAGING_DIR)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
