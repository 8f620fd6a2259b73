// @title          Sol-X API
// @version        1.0
// @description    Authentication, access requests and role-gated project management for Sol-X.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in             header
// @name           Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/solx/solx-api/internal/api"
	"github.com/solx/solx-api/internal/api/handler"
	"github.com/solx/solx-api/internal/core/service"
	"github.com/solx/solx-api/internal/infrastructure/db/mongo"
	"github.com/solx/solx-api/internal/infrastructure/db/redis"
	"github.com/solx/solx-api/internal/infrastructure/queue"
	"github.com/solx/solx-api/internal/infrastructure/token"
	"github.com/solx/solx-api/internal/pkg/config"
	"github.com/solx/solx-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "solx-api",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("ensure indexes failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTExpiry.Duration())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}

	// --- Notifications ---
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, redis.NewOutbox(rdb), logger.Component("notifications"))
	dispatcher.Start(workersCtx)

	// --- Services ---
	users := mongo.NewUserRepository(db)
	authService := service.NewAuthService(users, codec, logger.Component("auth"))
	accessService := service.NewAccessRequestService(
		users,
		mongo.NewAccessRequestRepository(db),
		dispatcher,
		redis.NewDedupChecker(rdb),
		cfg.Notify.AdminEmail,
		logger.Component("access"),
	)
	projectService := service.NewProjectService(mongo.NewProjectRepository(db), users, logger.Component("projects"))

	e := api.NewRouter(api.Deps{
		Log:         log,
		CORSOrigins: cfg.CORSOrigin,
		Tokens:      codec,
		Auth:        authService,
		Access:      accessService,
		Projects:    projectService,
		Health: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	waitForShutdown(log, e, stopWorkers, dispatcher, mongoClient, rdb)
}

func waitForShutdown(
	log zerolog.Logger,
	e *echo.Echo,
	stopWorkers context.CancelFunc,
	dispatcher *queue.Dispatcher,
	mongoClient *mongodriver.Client,
	rdb *goredis.Client,
) {
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if err := e.Close(); err != nil {
			log.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	stopWorkers()
	dispatcher.Wait()

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect error")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close error")
	}

	log.Info().Msg("server exited cleanly")
}
