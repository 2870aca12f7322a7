package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

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

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		logg.Error(context.Background(), "failed to extract sql.DB", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	if err := migrate.Run(context.Background(), sqlDB, migrate.DefaultDir, command, os.Args[2:]...); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	logg.Info(context.Background(), "migrations applied")
}
