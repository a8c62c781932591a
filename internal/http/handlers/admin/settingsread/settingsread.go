// Package settingsread implements the admin site settings read endpoint.
package settingsread

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/middlewarectx"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
)

// Handler handles tenant settings reads.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the settings read.
type Service interface {
	GetSettings(ctx context.Context, tenantID int) (map[string]string, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Read site settings
// @Description Returns the branding key/values of the session's tenant.
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Settings"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /admin/settings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.settingsread"

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

	settings, err := h.service.GetSettings(r.Context(), tenantID)
	if err != nil {
		log.Error("failed to read settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read settings"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"settings": settings,
	}))
}
