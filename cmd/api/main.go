package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-analytics/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-analytics/internal/handler/http"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/database"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/metrics"
	"github.com/cmlabs-hris/hris-analytics/internal/repository/postgresql"
	statsService "github.com/cmlabs-hris/hris-analytics/internal/service/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	level := parseLogLevel(cfg.App.LogLevel)
	logger := appHTTP.NewRequestLogger(cfg.App.Env, level)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	statsRepo := postgresql.NewStatsRepository(db, m)
	stats := statsService.NewStatsService(statsRepo, clock.New(cfg.App.UTCOffset), m, statsService.Options{
		Concurrency: cfg.Stats.QueryConcurrency,
		Timeout:     cfg.Stats.QueryTimeout,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	statsHandler := appHTTP.NewStatsHandler(stats)

	router := appHTTP.NewRouter(JWTService, statsHandler, appHTTP.RouterOptions{
		Logger:      logger,
		LogLevel:    level,
		CORSOrigins: cfg.App.CORSOrigins,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Stats.QueryTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", server.Addr, "env", cfg.App.Env, "utc_offset", cfg.App.UTCOffset.String())
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
