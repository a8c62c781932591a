// Package health implements the liveness endpoint used by deploy
// probes. It reports the state of the platform dependencies.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/streadway/amqp"

	"github.com/imobsites/platform/internal/cache"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/storage"
)

// Handler reports service health.
type Handler struct {
	log     *slog.Logger
	storage *storage.Storage
	rabbit  *amqp.Connection
	cache   *cache.Cache
}

// New creates a Handler.
func New(log *slog.Logger, storage *storage.Storage, rabbit *amqp.Connection, cache *cache.Cache) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
		rabbit:  rabbit,
		cache:   cache,
	}
}

// ServeHTTP godoc
// @Summary Health check
// @Description Reports the state of the database, cache and broker connections.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Service healthy"
// @Failure 503 {object} map[string]any "One or more dependencies down"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
		"rabbitmq": "ok",
	}
	healthy := true

	if err := h.storage.DB.PingContext(r.Context()); err != nil {
		checks["postgres"] = "down"
		healthy = false
	}
	if err := h.cache.Db.Ping(r.Context()).Err(); err != nil {
		checks["redis"] = "down"
		healthy = false
	}
	if h.rabbit == nil || h.rabbit.IsClosed() {
		checks["rabbitmq"] = "down"
		healthy = false
	}

	if !healthy {
		h.log.Error("health check failed", slog.String("op", op), slog.Any("checks", checks))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.OKWithData(map[string]any{
			"status": "degraded",
			"checks": checks,
		}))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
		"checks": checks,
	}))
}
