package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/casamichael/shopping-backend/internal/seed"
	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.Auto(context.Background(), dbClient); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	seeder, err := seed.New(dbClient.DB(), cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create seeder", err)
		os.Exit(1)
	}
	if err := seeder.Run(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed database", err)
		os.Exit(1)
	}

	logg.Info(context.Background(), "seed finished")
}
