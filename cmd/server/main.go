// Package main provides the entry point for the exposure engine server: it
// normalizes per-platform OSINT signals and computes the cross-source
// Predictive Risk Index for identity scans.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/osintwatch/exposure/internal/api"
	"github.com/osintwatch/exposure/internal/config"
	"github.com/osintwatch/exposure/internal/observability"
	"github.com/osintwatch/exposure/internal/storage"
)

// Version information (injected at build time via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("exposure %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", *configPath, err)
		cfg = config.DefaultConfig()
	}

	logger, err := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting exposure engine",
		zap.String("version", Version),
		zap.String("config", *configPath),
	)

	store, redisClient := buildStore(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var limiter *api.RateLimiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter = api.NewRateLimiter(redisClient, cfg.RateLimit, logger)
	}

	metrics := observability.NewMetrics()
	server := api.NewServer(cfg, store, logger, metrics, limiter)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}

// buildStore picks the scan store: Redis when enabled and reachable,
// otherwise the in-memory fallback.
func buildStore(cfg *config.Config, logger *zap.Logger) (storage.Store, *redis.Client) {
	if !cfg.Redis.Enabled {
		logger.Info("redis disabled, using in-memory scan store")
		return storage.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: os.Getenv(cfg.Redis.PasswordEnv),
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, falling back to in-memory scan store",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		client.Close()
		return storage.NewMemoryStore(), nil
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	return storage.NewRedisStore(client, cfg.Redis.ScanTTL), client
}
