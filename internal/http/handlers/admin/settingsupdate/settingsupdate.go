// Package settingsupdate implements the admin site settings update
// endpoint.
package settingsupdate

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

// Handler handles tenant settings updates.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the settings update.
type Service interface {
	UpdateSettings(ctx context.Context, tenantID int, settings map[string]string) error
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Update site settings
// @Description Upserts branding key/values for the session's tenant.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body map[string]string true "Settings key/values"
// @Success 200 {object} response.Response "Settings updated"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or empty payload"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /admin/settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.settingsupdate"

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

	var settings map[string]string
	if err := render.DecodeJSON(r.Body, &settings); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if len(settings) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no settings provided"))
		return
	}

	if err := h.service.UpdateSettings(r.Context(), tenantID, settings); err != nil {
		log.Error("failed to update settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update settings"))
		return
	}

	log.Info("settings updated", slog.Int("tenant_id", tenantID), slog.Int("keys", len(settings)))
	render.JSON(w, r, response.OK())
}
