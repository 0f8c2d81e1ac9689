// @title                       Course Marketplace API
// @version                     1.0
// @description                 Instructors publish courses, students enroll in them.
// @BasePath                    /
// @securityDefinitions.apikey  JWTAuth
// @in                          header
// @name                        Authorization
// @description                 Token returned by /api/user/login, sent as "JWT <token>".
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	_ "github.com/edumarket/course-api/docs"
	"github.com/edumarket/course-api/internal/api"
	"github.com/edumarket/course-api/internal/api/handler"
	"github.com/edumarket/course-api/internal/core/service"
	"github.com/edumarket/course-api/internal/infrastructure/db/mongo"
	"github.com/edumarket/course-api/internal/infrastructure/db/redis"
	"github.com/edumarket/course-api/internal/pkg/config"
	"github.com/edumarket/course-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad(ctx)

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "course-api",
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	users := mongo.NewUserRepository(db)
	courses := mongo.NewCourseRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, courses); err != nil {
		log.Fatal().Err(err).Msg("failed to create mongodb indexes")
	}

	authOpts := []service.AuthOption{
		service.WithTokenTTL(cfg.TokenTTL),
		service.WithLogger(logger.Named("auth")),
	}

	readiness := handler.NewHealthDependenciesHandler().Require("mongodb", handler.MongoPinger(db))

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
		}
	}
	if rdb != nil {
		defer rdb.Close()
		authOpts = append(authOpts, service.WithLoginLimiter(redis.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)))
		readiness.Optional("redis", handler.RedisPinger(rdb))
	} else {
		readiness.Optional("redis", nil)
	}

	authService := service.NewAuthService(users, cfg.JWTSecret, authOpts...)
	courseService := service.NewCourseService(courses, users, logger.Named("courses"))

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Authenticator: authService,
		Courses:       courseService,
		Readiness:     readiness,
		Logger:        log,
		Swagger:       cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
