package controllers

import (
	"context"
	"net/http"

	"github.com/haritkart/storefront/api/responses"
	"github.com/haritkart/storefront/pkg/config"
	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Environment", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "alive"})
	}
}

// HealthReady reports whether the storefront can actually serve: redis is
// reachable and the core API answers.
func HealthReady(cfg *config.Config, cache pinger, core pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Environment", cfg.App.Env)

		checks := map[string]string{"redis": "ok", "upstream": "ok"}
		healthy := true

		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}
		if core != nil {
			if err := core.Ping(r.Context()); err != nil {
				checks["upstream"] = err.Error()
				healthy = false
			}
		}

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "service not ready").
				WithDetails(checks)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
