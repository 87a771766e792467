// ABOUTME: Main entry point for the OpenMusic API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openmusic-api/api"
	"openmusic-api/api/handlers"
	"openmusic-api/api/middleware"
	"openmusic-api/api/response"
	"openmusic-api/core/albums"
	"openmusic-api/core/interfaces"
	"openmusic-api/core/likes"
	"openmusic-api/core/services"
	"openmusic-api/core/songs"
	"openmusic-api/infrastructure/auth/jwt"
	"openmusic-api/infrastructure/cache/memory"
	"openmusic-api/infrastructure/cache/redis"
	"openmusic-api/infrastructure/cache/sqlite"
	memstore "openmusic-api/infrastructure/database/memory"
	"openmusic-api/infrastructure/database/postgres"
	logruslogger "openmusic-api/infrastructure/logger/logrus"
	"openmusic-api/infrastructure/storage/local"
	"openmusic-api/infrastructure/storage/s3"
	"openmusic-api/pkg/config"
	"openmusic-api/pkg/featureflags"
)

func main() {
	if err := run(); err != nil {
		log.Printf("OpenMusic API stopped: %v", err)
		os.Exit(1)
	}
}

// run owns every resource it opens; returning lets the deferred closes run
func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logruslogger.New(logruslogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	defer logger.Close()

	logger.Info("Starting OpenMusic API", map[string]interface{}{
		"port":         cfg.Server.Port,
		"cache_type":   cfg.Cache.Type,
		"store_type":   cfg.Store.Type,
		"storage_type": cfg.Storage.Type,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

// serve opens the store, cache and cover storage, runs the HTTP server until
// ctx is done and closes everything it opened on the way out
func serve(ctx context.Context, cfg *config.Config, logger interfaces.Logger) error {
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	cache := newCache(ctx, cfg, logger)
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("Failed to close cache", map[string]interface{}{"error": err.Error()})
		}
	}()

	blobs, err := newBlobStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open cover storage: %w", err)
	}

	deps := interfaces.Dependencies{
		Store:  store,
		Cache:  cache,
		Blobs:  blobs,
		Logger: logger,
	}

	flags := featureflags.NewEnvManager("")
	tokens := jwt.NewManager(cfg.Auth.AccessTokenKey, cfg.Auth.AccessTokenAge)

	// Create services
	likeService := likes.NewService(deps.Store, deps.Cache, deps.Logger, likes.Config{
		TTL:       cfg.Cache.TTL,
		OpTimeout: cfg.Cache.OpTimeout,
	})
	albumService := albums.NewService(deps.Store, deps.Blobs, likeService, services.NewCoverColorService(deps.Logger), flags, deps.Logger, albums.Config{
		PublicBaseURL: cfg.Server.PublicBaseURL,
		CoverMaxBytes: cfg.Server.CoverMaxBytes,
	})
	songService := songs.NewService(deps.Store)

	normalizer := response.NewNormalizer(logger, cfg.Server.ServerErrorMessage)

	var limiterOpts []middleware.RateLimiterOption
	if cfg.Server.TrustProxyHeaders {
		limiterOpts = append(limiterOpts, middleware.WithTrustedProxy())
	}
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow, limiterOpts...)
	go limiter.Run(ctx)

	humaAPI, router := api.NewAPI(api.APIConfig{
		Logger:      logger,
		Normalizer:  normalizer,
		Flags:       flags,
		RateLimiter: limiter,
	})

	// Create and register handlers
	albumHandler := handlers.NewAlbumHandler(albumService, normalizer)
	albumHandler.RegisterRoutes(humaAPI)
	albumHandler.RegisterRawRoutes(router)

	handlers.NewSongHandler(songService, normalizer).RegisterRoutes(humaAPI)
	handlers.NewLikeHandler(likeService, tokens, normalizer).RegisterRoutes(humaAPI)
	handlers.NewHealthHandler(deps.Store, deps.Cache, normalizer).RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...", nil)
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped", map[string]interface{}{"likes": likeService.Stats()})
	return runErr
}

func newStore(ctx context.Context, cfg *config.Config, logger interfaces.Logger) (interfaces.Store, error) {
	if cfg.Store.Type == "postgres" {
		return postgres.NewStore(ctx, cfg.Store.Postgres.DSN(), logger)
	}
	logger.Warn("Using in-memory store, data is lost on restart", nil)
	return memstore.NewStore(), nil
}

// newCache falls back to memory when the configured backend is unavailable;
// the store stays the source of truth either way.
func newCache(ctx context.Context, cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(ctx, cfg.Cache.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
			return redisCache
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path)
		if err == nil {
			logger.Info("Using SQLite cache", map[string]interface{}{
				"path": cfg.Cache.SQLite.Path,
			})
			return sqliteCache
		}
		logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(cfg.Cache.Memory.CleanupInterval)
}

func newBlobStorage(ctx context.Context, cfg *config.Config, logger interfaces.Logger) (interfaces.BlobStorage, error) {
	if cfg.Storage.Type == "s3" {
		return s3.NewStorage(ctx, cfg.Storage.S3, logger)
	}
	return local.NewStorage(cfg.Storage.LocalDir)
}
