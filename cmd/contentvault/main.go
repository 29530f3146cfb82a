// Package main is the entry point for the contentvault ingestion server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentvault/internal/cache"
	"contentvault/internal/config"
	"contentvault/internal/database"
	"contentvault/internal/filestore"
	"contentvault/internal/handlers"
	"contentvault/internal/ingest"
	"contentvault/internal/router"
	"contentvault/internal/storage"
	"contentvault/internal/store"
)

// sweepInterval is how often the retention sweep runs when enabled.
const sweepInterval = 12 * time.Hour

func main() {
	// Structured logger — text output, debug level everywhere for now.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage_root", cfg.StorageRoot,
		"retention_days", cfg.RetentionDays,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize the date-partitioned file store.
	files, err := filestore.New(cfg.StorageRoot)
	if err != nil {
		slog.Error("failed to initialize file store", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for the dedup lookup cache (optional — the registry
	// works from PostgreSQL alone).
	var lookup *cache.HashLookup
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		lookup = cache.NewHashLookup(valkeyClient, cache.DefaultLookupTTL)
	} else {
		slog.Warn("valkey not configured — dedup lookups go straight to postgres")
	}

	// Connect to the S3-compatible upload archive (optional).
	archive, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		slog.Error("failed to initialize s3 archive", "error", err)
		os.Exit(1)
	}
	if archive != nil {
		slog.Info("s3 upload archive connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 archive not configured — uploads stored locally only")
	}

	// Initialize data stores.
	contentStore := store.NewContentStore(db)
	tagStore := store.NewTagStore(db)
	jobStore := store.NewJobStore(db)
	bundleStore := store.NewBundleStore(db)

	// Wire the ingestion service over its collaborators.
	svc := ingest.New(contentStore, files, lookup, archive, cfg.ScratchDir)

	api := handlers.New(svc, contentStore, tagStore, jobStore, bundleStore)
	r := router.New(api)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodic retention sweep; runs alongside ingestion without locks.
	if cfg.RetentionDays > 0 {
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			files.Sweep(ctx, cfg.RetentionDays)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					files.Sweep(ctx, cfg.RetentionDays)
				}
			}
		}()
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
