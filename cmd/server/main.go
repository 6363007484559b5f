package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"archnet/internal/cache"
	"archnet/internal/config"
	"archnet/internal/handlers"
	"archnet/internal/messaging"
	"archnet/internal/middleware"
	"archnet/internal/query"
	"archnet/internal/response"
	"archnet/internal/router"
	"archnet/internal/services"
	"archnet/internal/upstream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger
	logger, err := initLogger(&cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Starting ArchNet gateway",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize cache
	cacheStore, err := cache.NewCache(&cache.Config{
		Provider:        cfg.Cache.Provider,
		TTL:             cfg.Cache.TTL,
		MaxKeys:         cfg.Cache.MaxKeys,
		CleanupInterval: cfg.Cache.CleanupInterval,
		RedisURL:        cfg.Cache.RedisURL,
		RedisDB:         cfg.Cache.RedisDB,
		RedisPassword:   cfg.Cache.RedisPassword,
		PoolSize:        cfg.Cache.PoolSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer cacheStore.Close()

	// Query store over the cache
	store := query.NewStore(cacheStore, &query.Config{TTL: cfg.Cache.TTL}, logger)

	// Upstream API client
	api := upstream.NewClient(&upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Timeout:        cfg.Upstream.Timeout,
		MaxRetries:     cfg.Upstream.MaxRetries,
		InitialBackoff: cfg.Upstream.InitialBackoff,
	}, logger)

	// Websocket hub for live messaging
	hub := messaging.NewHub(logger)

	// Services
	collection := services.NewCollection(store, api, hub, logger)

	// HTTP surface
	builder := response.NewBuilder(logger)
	auth := middleware.NewAuth(&cfg.Auth, builder, logger)
	rateLimiter := middleware.NewRateLimiter(&cfg.Security, builder, logger)
	handler := handlers.New(collection, builder, logger)

	mux := router.New(router.Deps{
		Handler:     handler,
		Auth:        auth,
		RateLimiter: rateLimiter,
		Builder:     builder,
		Cache:       cacheStore,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        mux,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server shutdown completed")
	}
}

// initLogger initializes the structured logger from configuration.
func initLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}
	return zapConfig.Build()
}
