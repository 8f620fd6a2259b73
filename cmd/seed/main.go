// Command seed provisions the initial master admin. Running it again is a
// no-op once the account exists.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/service"
	"github.com/solx/solx-api/internal/infrastructure/db/mongo"
	"github.com/solx/solx-api/internal/pkg/config"
	"github.com/solx/solx-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadSeed(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development", Service: "solx-seed"})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes failed")
	}

	user, created, err := service.ProvisionUser(
		ctx,
		mongo.NewUserRepository(db),
		cfg.Name,
		cfg.Email,
		cfg.Password,
		domain.RoleMasterAdmin,
		cfg.BcryptCost,
	)
	if err != nil {
		log.Fatal().Err(err).Str("email", cfg.Email).Msg("seed failed")
	}

	if !created {
		log.Info().Str("user_id", user.ID).Msg("master admin already exists")
		return
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("master admin created")
}
