// Command api is the Drag Race Manager API server.
//
// Usage:
//
//	dragrace-api
//	PORT=8080 DATABASE_URL=postgres://... dragrace-api

// @title Drag Race Manager API
// @version 1.0.0
// @description Three-loss elimination drag race tournament manager: drivers, races, rankings, exports and snapshots.
// @host localhost:5000
// @BasePath /
// @schemes http https
// @contact.name Drag Race Manager
// @license.name MIT
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

	"github.com/joho/godotenv"

	"github.com/Johane03/Drag-Race-Manager/internal/api"
	"github.com/Johane03/Drag-Race-Manager/internal/api/handler"
	"github.com/Johane03/Drag-Race-Manager/internal/cache"
	"github.com/Johane03/Drag-Race-Manager/internal/config"
	"github.com/Johane03/Drag-Race-Manager/internal/db"
	"github.com/Johane03/Drag-Race-Manager/internal/listener"
	"github.com/Johane03/Drag-Race-Manager/internal/maintenance"
	"github.com/Johane03/Drag-Race-Manager/internal/session"
	"github.com/Johane03/Drag-Race-Manager/internal/store"
	"github.com/Johane03/Drag-Race-Manager/internal/tournament"

	_ "github.com/Johane03/Drag-Race-Manager/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess := session.New(tournament.NewManager(cfg.Divisions))
	logger.Info("Tournament initialized", "name", cfg.TournamentName, "divisions", cfg.Divisions)

	// Optional persistence. Without DATABASE_URL the tournament lives in
	// memory and is lost on restart, same as /api/save without a client copy.
	var (
		snapshots   handler.SnapshotStore
		saver       *maintenance.Autosaver
		tickersDone chan struct{}
	)
	if cfg.HasDatabase() {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)

		st := store.New(pool.Pool)
		if _, err := maintenance.Restore(ctx, sess, st, logger); err != nil {
			logger.Error("Failed to restore tournament", "error", err)
			os.Exit(1)
		}
		snapshots = st

		// Pick up snapshots stored by the CLI while running
		go listener.Start(ctx, cfg.DatabaseURL, st, sess, logger)

		// Start maintenance tickers (autosave, prune)
		tickersDone = make(chan struct{})
		saver = maintenance.NewAutosaver(sess, st, logger)
		go func() {
			defer close(tickersDone)
			maintenance.Start(ctx, saver, maintenance.Config{
				AutosaveInterval: cfg.AutosaveInterval,
				PruneInterval:    time.Hour,
				Keep:             cfg.SnapshotKeep,
			}, logger)
		}()
	} else {
		logger.Info("Persistence disabled (no DATABASE_URL)")
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Create router
	router := api.NewRouter(sess, appCache, snapshots, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Drag Race Manager API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}

	// Save last, once no request or ticker can change the tournament, and
	// before the deferred pool close.
	if tickersDone != nil {
		<-tickersDone
		saver.SaveOnShutdown()
	}
	logger.Info("Server stopped")
}
