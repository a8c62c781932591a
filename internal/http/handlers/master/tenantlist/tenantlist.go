// Package tenantlist implements the reseller panel tenant list.
package tenantlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
)

const defaultLimit = 50

// Handler handles tenant lists for the master role.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the tenant list business logic.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List tenants
// @Description Returns all tenants for the reseller panel.
// @Tags Master
// @Produce  json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]any "Tenants"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /master/tenants [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.master.tenantlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 200 {
		limit = defaultLimit
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	tenants, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list tenants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tenants"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"tenants": tenants,
	}))
}
