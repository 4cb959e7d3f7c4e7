package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/inkforge/printquote-backend/api/responses"
	"github.com/inkforge/printquote-backend/pkg/config"
	"github.com/inkforge/printquote-backend/pkg/db"
	pkgerrors "github.com/inkforge/printquote-backend/pkg/errors"
	"github.com/inkforge/printquote-backend/pkg/logger"
)

type redisPinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PrintQuote-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores. Redis is optional infrastructure, so
// its failure degrades the report without failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cache redisPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PrintQuote-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"db": "ok", "redis": "ok"}

		if dbP == nil {
			checks["db"] = "unconfigured"
		} else if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		if cache == nil {
			checks["redis"] = "unconfigured"
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
			if logg != nil {
				logg.Error(ctx, "redis unreachable during readiness check", err)
			}
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
