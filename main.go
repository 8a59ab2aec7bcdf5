package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-server/config"
	"social-server/handlers"
	"social-server/middleware"
	"social-server/services"
	"social-server/storage"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Data store
	var (
		userRepo    storage.UserRepository
		thoughtRepo storage.ThoughtRepository
		pinger      storage.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := storage.NewMemoryStore()
		userRepo, thoughtRepo, pinger = store.Users(), store.Thoughts(), store
		logger.Warn("Using in-memory store, data will not survive a restart")
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		store, err := storage.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase, logger)
		cancel()
		if err != nil {
			logger.Fatal("MongoDB connection failed", zap.Error(err))
		}
		defer store.Disconnect(context.Background())
		userRepo, thoughtRepo, pinger = store.Users(), store.Thoughts(), store
	}

	// Redis user cache, optional
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, user cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			redisClient.Close()
		} else {
			defer redisClient.Close()
			userRepo = storage.NewCachedUserRepository(userRepo, redisClient, cfg.UserCacheTTL, logger)
			logger.Info("User cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.UserCacheTTL))
		}
	}

	// Initialize services and handlers
	userService := services.NewUserService(userRepo, thoughtRepo, logger)
	thoughtService := services.NewThoughtService(thoughtRepo, userRepo, logger)
	userHandler := handlers.NewUserHandler(userService)
	thoughtHandler := handlers.NewThoughtHandler(thoughtService)
	healthHandler := handlers.NewHealthHandler(pinger)
	metrics := middleware.NewMetrics("social")

	r := mux.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.ErrorMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Routes
	handlers.RegisterRoutes(r, thoughtHandler, userHandler)
	r.HandleFunc("/healthz", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = lvl
	return zcfg.Build()
}
