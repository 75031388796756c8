package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenmarket/greenmarket-backend/api/controllers"
	"github.com/greenmarket/greenmarket-backend/api/routes"
	"github.com/greenmarket/greenmarket-backend/internal/cart"
	"github.com/greenmarket/greenmarket-backend/internal/catalog"
	"github.com/greenmarket/greenmarket-backend/internal/checkout"
	"github.com/greenmarket/greenmarket-backend/internal/orders"
	"github.com/greenmarket/greenmarket-backend/pkg/config"
	"github.com/greenmarket/greenmarket-backend/pkg/db"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
	"github.com/greenmarket/greenmarket-backend/pkg/metrics"
	"github.com/greenmarket/greenmarket-backend/pkg/migrate"
	"github.com/greenmarket/greenmarket-backend/pkg/redis"
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

	if cfg.FeatureFlags.SeedSampleData {
		if err := catalog.SeedSampleProducts(context.Background(), dbClient.DB(), logg); err != nil {
			logg.Error(context.Background(), "failed to seed sample products", err)
			os.Exit(1)
		}
	}

	// Redis is optional: without it the checkout idempotency guard is skipped.
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(dbClient, catalogRepo, ordersRepo, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	deps := routes.Deps{
		Logger:   logg,
		Status:   controllers.NewStatusController(),
		Products: controllers.NewProductsController(catalogRepo, logg),
		Cart:     controllers.NewCartController(cartService, logg),
		Checkout: controllers.NewCheckoutController(checkoutService, logg),
		Metrics:  registry,
	}
	if redisClient != nil {
		deps.Health = controllers.NewHealthController(dbClient, redisClient, logg)
		deps.Cache = redisClient
	} else {
		deps.Health = controllers.NewHealthController(dbClient, nil, logg)
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
		Addr:    addr,
		Handler: routes.New(deps),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
