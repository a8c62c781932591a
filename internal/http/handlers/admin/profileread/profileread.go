// Package profileread implements the admin "client data" read endpoint.
package profileread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/middlewarectx"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// Handler handles tenant profile reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the tenant profile read.
type Service interface {
	GetProfile(ctx context.Context, tenantID int) (*models.Tenant, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Read tenant profile
// @Description Returns the client data of the session's tenant.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Tenant profile"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Tenant not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /admin/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.profileread"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tenantID, ok := r.Context().Value(middlewarectx.SessionTenantID).(int)
	if !ok || tenantID == 0 {
		log.Error("tenant id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	tenant, err := h.service.GetProfile(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("tenant not found"))
			return
		}
		log.Error("failed to read tenant profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"tenant": tenant,
	}))
}
