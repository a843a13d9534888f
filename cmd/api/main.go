package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskserver/task-api/internal/api"
	"github.com/taskserver/task-api/internal/api/handler"
	"github.com/taskserver/task-api/internal/core/service"
	"github.com/taskserver/task-api/internal/infrastructure/db/mongo"
	"github.com/taskserver/task-api/internal/infrastructure/db/redis"
	"github.com/taskserver/task-api/internal/infrastructure/queue"
	"github.com/taskserver/task-api/internal/infrastructure/tracing"
	"github.com/taskserver/task-api/internal/pkg/config"
	"github.com/taskserver/task-api/pkg/logger"
)

const serviceName = "task-api"

// @title        Task API
// @version      1.0
// @description  Task tracking service with JWT authentication.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})
	if cfg.UsesInsecureSecret() {
		log.Warn().Msg("JWT_SECRET is not set, using the insecure development fallback")
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	userRepo := mongo.NewUserRepository(db, cfg.Mongo.UsersCollection)
	taskRepo := mongo.NewTaskRepository(db, cfg.Mongo.TasksCollection)
	activityRepo := mongo.NewActivityRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := activityRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create activity indexes")
	}

	activityService := service.NewActivityService(activityRepo, log)
	dispatcher := queue.NewDispatcher(cfg.ActivityWorkers, activityService, log)
	workerCtx, stopWorkers := context.WithCancel(ctx)
	dispatcher.Start(workerCtx)

	authService := service.NewAuthService(
		userRepo,
		service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		redis.NewSignupLock(rdb),
		log,
	)
	taskService := service.NewTaskService(taskRepo, dispatcher, log)

	e := api.NewRouter(api.Deps{
		Auth:     authService,
		Tasks:    taskService,
		Activity: activityService,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		StatusRouteRequiresAuth: cfg.StatusRouteRequiresAuth,
		Logger:                  log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Handlers are drained, so no new activity can arrive.
	dispatcher.Stop()
	stopWorkers()

	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close redis")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to disconnect mongodb")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}

	log.Info().Msg("shutdown complete")
}
