// Package profile implements the public site bootstrap endpoint: the
// tenant resolved from the request host plus its branding settings.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/middlewarectx"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
)

// Handler handles public site profile requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the settings read used by the public site.
type Service interface {
	GetSettings(ctx context.Context, tenantID int) (map[string]string, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// publicTenant is the subset of tenant data the public site may see.
type publicTenant struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}

// ServeHTTP godoc
// @Summary Site profile
// @Description Returns the agency and branding of the site resolved from the request host.
// @Tags Site
// @Produce  json
// @Success 200 {object} map[string]any "Site profile"
// @Failure 404 {object} response.ErrorResponse "Site unavailable"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /site/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.site.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tenant, ok := middlewarectx.TenantFromContext(r.Context())
	if !ok {
		log.Error("tenant not found in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resolve site"))
		return
	}
	if tenant.Status == models.TenantStatusSuspended {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("site unavailable"))
		return
	}

	settings, err := h.service.GetSettings(r.Context(), tenant.ID)
	if err != nil {
		log.Error("failed to read site settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load site"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"tenant": publicTenant{
			Name:     tenant.Name,
			Slug:     tenant.Slug,
			Email:    tenant.Email,
			Phone:    tenant.Phone,
			Whatsapp: tenant.Whatsapp,
		},
		"settings": settings,
	}))
}
