package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mutuo/internal/amqp"
	"mutuo/internal/cache"
	"mutuo/internal/config"
	apphttp "mutuo/internal/http"
	"mutuo/internal/log"
	"mutuo/internal/services"
	"mutuo/internal/storage"
	"mutuo/internal/tracing"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	appLog := logger.WithComponent(log.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		appLog.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	shutdownTracing, err := tracing.Init("mutuo", cfg.OTELEndpoint)
	if err != nil {
		appLog.Error("Failed to initialize tracing", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		appLog.Error("Failed to initialize quote storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without it quotes are still served and recorded,
	// they just are not announced to the export worker.
	var publisher services.Publisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		appLog.Warn("AMQP unavailable, quote announcements disabled", log.FieldError, err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	var quoteCache cache.Cache
	var cacheManager *cache.Manager
	switch cfg.CacheBackend {
	case "redis":
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.CacheTTL)
		defer redisCache.Close()
		quoteCache = redisCache
		appLog.Info("Using redis quote cache", "addr", cfg.RedisAddr)
	default:
		lru := cache.NewLRU(cfg.CacheSize, cfg.CacheTTL)
		cacheManager = cache.NewManager()
		cacheManager.Register(lru)
		cacheManager.StartCleanup(cfg.CacheTTL)
		quoteCache = lru
		appLog.Info("Using in-process quote cache", "size", cfg.CacheSize, "ttl", cfg.CacheTTL)
	}

	quoteService := services.NewQuoteService(repo, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, quoteService, quoteCache, repo.Ping, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLog.Error("Server shutdown error", log.FieldError, err)
		}
		if cacheManager != nil {
			cacheManager.Stop()
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLog.Error("Tracing shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	appLog.Info("Starting mutuo server", "port", cfg.Port, "cache_backend", cfg.CacheBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	appLog.Info("Server stopped gracefully")
}
