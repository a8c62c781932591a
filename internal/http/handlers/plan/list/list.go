// Package list implements the public plan catalog endpoint.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
)

// Handler handles plan catalog requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the plan catalog business logic.
type Service interface {
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List plans
// @Description Returns the active plans available for checkout.
// @Tags Plans
// @Produce  json
// @Success 200 {object} map[string]any "Active plans"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /plans/public-list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.ListActivePlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": plans,
	}))
}
