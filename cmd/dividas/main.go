package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"dividas/internal/backend"
	"dividas/internal/cache"
	"dividas/internal/cli"
	"dividas/internal/core"
	apphttp "dividas/internal/http"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	}()
	logger.Info("Data backend initialized", "backend", cfg.DataBackend)

	var statsCache cache.Store[core.Statistics]
	switch cfg.CacheBackend {
	case "redis":
		redisCache, err := cache.NewRedisStore[core.Statistics](cfg.RedisAddr, "dividas:stats", cfg.CacheTTL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		defer redisCache.Close()
		statsCache = redisCache
		logger.Info("Statistics cache initialized", "cache", "redis", "addr", cfg.RedisAddr)
	default:
		memCache := cache.NewMemoryStore[core.Statistics](16, cfg.CacheTTL)
		cleaner := cache.NewManager()
		cleaner.Register(memCache)
		cleaner.StartCleanup(5 * time.Minute)
		defer cleaner.Stop()
		statsCache = memCache
		logger.Info("Statistics cache initialized", "cache", "memory", "ttl", cfg.CacheTTL)
	}

	srv := apphttp.NewServer(":"+cfg.Port, result.Backend, statsCache)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting dividas server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
