package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/libris-io/libris"
	"github.com/libris-io/libris/auth"
	"github.com/libris-io/libris/config"
	"github.com/libris-io/libris/database"
	"github.com/libris-io/libris/httpapi"
	"github.com/libris-io/libris/s3store"
	"github.com/libris-io/libris/staging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the Libris HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 3042, "HTTP server port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	repos, dbCleanup, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbCleanup()
	slog.Info("connected to database", "type", cfg.Database.Type)

	receiver, err := staging.NewReceiver(cfg.Service.StagingDir, cfg.Service.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("create staging receiver: %w", err)
	}

	store, err := s3store.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("create object store: %w", err)
	}
	slog.Info("object store ready", "bucket", cfg.Storage.Bucket, "region", cfg.Storage.Region)

	tokens, err := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), time.Duration(cfg.Auth.TokenTTL)*time.Second)
	if err != nil {
		return fmt.Errorf("create token manager: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	service := libris.NewLibraryService(repos.Books, store, libris.ServiceConfig{
		CompensationTimeout: time.Duration(cfg.Service.CompensationTimeout) * time.Second,
	})
	users := libris.NewUserService(repos.Users, hasher, tokens)

	handlerConfig := httpapi.HandlerConfig{
		Verifier: tokens,
		CORS:     cfg.CORS,
	}
	handler := httpapi.NewHandler(&handlerConfig, service, users, receiver)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
