package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/casamichael/shopping-backend/api/routes"
	internalauth "github.com/casamichael/shopping-backend/internal/auth"
	"github.com/casamichael/shopping-backend/internal/cart"
	"github.com/casamichael/shopping-backend/internal/catalog"
	"github.com/casamichael/shopping-backend/internal/categories"
	"github.com/casamichael/shopping-backend/internal/geo"
	"github.com/casamichael/shopping-backend/internal/orders"
	"github.com/casamichael/shopping-backend/internal/products"
	"github.com/casamichael/shopping-backend/internal/seed"
	"github.com/casamichael/shopping-backend/internal/users"
	"github.com/casamichael/shopping-backend/pkg/auth/session"
	"github.com/casamichael/shopping-backend/pkg/config"
	"github.com/casamichael/shopping-backend/pkg/db"
	"github.com/casamichael/shopping-backend/pkg/logger"
	"github.com/casamichael/shopping-backend/pkg/mailer"
	"github.com/casamichael/shopping-backend/pkg/metrics"
	"github.com/casamichael/shopping-backend/pkg/migrate"
	"github.com/casamichael/shopping-backend/pkg/redis"
	"github.com/casamichael/shopping-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedOnBoot {
		seeder, err := seed.New(dbClient.DB(), cfg.Password, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create seeder", err)
			os.Exit(1)
		}
		if err := seeder.Run(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed database", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create storage client", err)
		os.Exit(1)
	}

	mailClient, err := mailer.NewClient(cfg.Mail, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	geoRepo := geo.NewRepository(dbClient.DB())
	categoryRepo := categories.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())

	authService, err := internalauth.NewService(
		userRepo, sessionManager, geoRepo, mailClient, gcsClient,
		cfg.JWT, cfg.Password, cfg.GCS, cfg.Mail,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	geoService, err := geo.NewService(geoRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create geo service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, categoryRepo, gcsClient, cfg.GCS)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, gcsClient, cfg.Catalog, cfg.GCS)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, cartRepo, productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Sessions:   sessionManager,
			Registry:   registry,
			HTTP:       httpMetrics,
			Auth:       authService,
			Catalog:    catalogService,
			Cart:       cartService,
			Orders:     orderService,
			Geo:        geoService,
			Categories: categoryService,
			Products:   productService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
