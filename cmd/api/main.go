package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/userhub/user-service/internal/api"
	"github.com/userhub/user-service/internal/api/handler"
	"github.com/userhub/user-service/internal/core/ports"
	"github.com/userhub/user-service/internal/core/service"
	"github.com/userhub/user-service/internal/infrastructure/config"
	mongodb "github.com/userhub/user-service/internal/infrastructure/db/mongo"
	"github.com/userhub/user-service/internal/infrastructure/db/postgres"
	redisdb "github.com/userhub/user-service/internal/infrastructure/db/redis"
	"github.com/userhub/user-service/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; fail loudly.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	tokens, err := service.NewTokenService(
		[]byte(cfg.JWT.PrivateKey), []byte(cfg.JWT.PublicKey), cfg.JWT.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token signing configuration invalid")
	}

	var (
		repo      ports.UserRepository
		readiness = make(map[string]handler.Pinger)
	)

	switch cfg.Backend {
	case config.BackendMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		mongoRepo := mongodb.NewUserRepository(db)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index creation failed")
		}
		repo = mongoRepo
		readiness["mongodb"] = func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}

	case config.BackendPostgres:
		db, err := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer func() { _ = db.Close() }()

		pgRepo := postgres.NewUserRepository(db)
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres schema creation failed")
		}
		repo = pgRepo
		readiness["postgres"] = db.PingContext
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()

		repo = redisdb.NewIdentityCache(repo, rdb)
		readiness["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	e := api.NewRouter(api.Dependencies{
		Users:     service.NewUserService(repo),
		Tokens:    tokens,
		Repo:      repo,
		Readiness: readiness,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend).Msg("user service started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
