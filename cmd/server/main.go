package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contas/internal/config"
	"contas/internal/database"
	"contas/internal/services"

	"github.com/joho/godotenv"
)

const rateLimiterCleanupInterval = time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	srv := newServer(cfg, db.DB, services.NewPrometheusMetrics(), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.cacheMgr.Start(cfg.Forecast.CleanupInterval)
	go srv.rateLimiter.Run(ctx, rateLimiterCleanupInterval)

	httpServer := srv.httpServer(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port))
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			"addr", httpServer.Addr,
			"environment", cfg.Server.Environment,
			"db_driver", cfg.Database.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	srv.cacheMgr.Stop()

	logger.Info("Server stopped")
}
