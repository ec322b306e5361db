// migrate applies the PostgreSQL schema and creates the MongoDB indexes, then exits.
//
// Usage: go run ./cmd/migrate [postgres|mongo]
// Without an argument both stores are migrated. Connection settings come from
// the same environment as the API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	infmongo "github.com/jhoicas/nexus-bills/internal/infrastructure/mongo"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/postgres"
	"github.com/jhoicas/nexus-bills/pkg/config"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

func main() {
	target := "all"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch target {
	case "all":
		err = migratePostgres(ctx, cfg)
		if err == nil {
			err = migrateMongo(ctx, cfg)
		}
	case "postgres":
		err = migratePostgres(ctx, cfg)
	case "mongo":
		err = migrateMongo(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown target %q (want postgres, mongo or nothing)\n", target)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("target", target).Msg("migration failed")
		os.Exit(1)
	}
	log.Info().Str("target", target).Msg("migration complete")
}

func migratePostgres(ctx context.Context, cfg *config.Config) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return postgres.Migrate(ctx, pool)
}

func migrateMongo(ctx context.Context, cfg *config.Config) error {
	mc, err := infmongo.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = mc.Close(context.Background()) }()
	return mc.Migrate(ctx)
}
