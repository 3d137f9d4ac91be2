package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pathgriho/adrotor/internal/adconfig"
	"github.com/pathgriho/adrotor/internal/api"
	"github.com/pathgriho/adrotor/internal/config"
	"github.com/pathgriho/adrotor/internal/db"
	"github.com/pathgriho/adrotor/internal/logic"
	"github.com/pathgriho/adrotor/internal/observability"
)

func main() {
	cfg := config.Load()

	logger, err := observability.InitLogger(cfg.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
	}()

	if err := run(logger, cfg); err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdConfigURL == "" {
		return fmt.Errorf("AD_CONFIG_URL is required")
	}
	if cfg.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET is required")
	}

	loc, err := logic.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracing(ctx, logger, cfg.ServiceName, cfg.TempoEndpoint, cfg.TracingSampleRate)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		defer shutdown()
	}

	store, err := db.InitRedis(cfg.RedisAddr)
	if err != nil {
		return fmt.Errorf("failed to connect redis: %w", err)
	}
	defer store.Close()

	provider := adconfig.NewProvider(cfg.AdConfigURL, cfg.ConfigCacheTTL, store, logger)

	metricsRegistry := observability.NewPrometheusRegistry()

	srvDeps := api.NewServer(logger, store, provider, metricsRegistry, loc, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srvDeps.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("Ad server running",
		zap.String("addr", srv.Addr),
		zap.String("timezone", cfg.Timezone),
		zap.Duration("config_cache_ttl", cfg.ConfigCacheTTL),
		zap.Duration("counter_ttl", cfg.CounterTTL),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
