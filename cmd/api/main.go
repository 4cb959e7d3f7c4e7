package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkforge/printquote-backend/api/routes"
	"github.com/inkforge/printquote-backend/internal/catalog"
	"github.com/inkforge/printquote-backend/internal/pricing"
	"github.com/inkforge/printquote-backend/internal/quotes"
	"github.com/inkforge/printquote-backend/pkg/config"
	"github.com/inkforge/printquote-backend/pkg/db"
	"github.com/inkforge/printquote-backend/pkg/logger"
	"github.com/inkforge/printquote-backend/pkg/metrics"
	"github.com/inkforge/printquote-backend/pkg/migrate"
	"github.com/inkforge/printquote-backend/pkg/redis"
)

type counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// quoteCounter keeps a typed-nil *redis.Client from hiding behind the
// interface the quote service checks against nil.
func quoteCounter(client *redis.Client) counter {
	if client == nil {
		return nil
	}
	return client
}

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

	// Redis backs idempotency replay and quote numbering. Both degrade
	// gracefully, so a missing Redis only logs a warning.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
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
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	pricingService, err := pricing.NewService(catalogRepo, dbClient, cfg.Pricing, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	quoteRepo := quotes.NewRepository(dbClient.DB())
	quoteService, err := quotes.NewService(quoteRepo, pricingService, dbClient, quoteCounter(redisClient), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, pricingService, quoteService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
