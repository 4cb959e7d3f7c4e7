package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkforge/printquote-backend/api/controllers"
	quotecontrollers "github.com/inkforge/printquote-backend/api/controllers/quotes"
	"github.com/inkforge/printquote-backend/api/middleware"
	"github.com/inkforge/printquote-backend/internal/pricing"
	"github.com/inkforge/printquote-backend/internal/quotes"
	"github.com/inkforge/printquote-backend/pkg/config"
	"github.com/inkforge/printquote-backend/pkg/db"
	"github.com/inkforge/printquote-backend/pkg/logger"
	"github.com/inkforge/printquote-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	pricingService pricing.Service,
	quoteService quotes.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.API.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger(redisClient)))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	// Redis doubles as the idempotency store; without it quote creation
	// still works, just without replay protection.
	var idempotencyStore redis.IdempotencyStore
	if redisClient != nil {
		idempotencyStore = redisClient
	}

	r.Route("/v1/quotes", func(r chi.Router) {
		r.Post("/price", quotecontrollers.Price(pricingService, logg))
		r.Post("/matrix", quotecontrollers.Matrix(pricingService, logg))
		r.With(middleware.Idempotency(idempotencyStore, cfg.Pricing.QuoteIdempotencyTTL, logg)).
			Post("/", quotecontrollers.Create(quoteService, logg))
		r.Get("/", quotecontrollers.List(quoteService, logg))
		r.Get("/{quoteID}", quotecontrollers.Get(quoteService, logg))
	})

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// redisPinger keeps a typed-nil *redis.Client from masquerading as a
// usable pinger behind the interface.
func redisPinger(client *redis.Client) pinger {
	if client == nil {
		return nil
	}
	return client
}
