// Package listinglist implements the public site listing search.
package listinglist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	adminlist "github.com/imobsites/platform/internal/http/handlers/listing/list"
	"github.com/imobsites/platform/internal/http/middlewarectx"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
)

// Handler handles public listing searches.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the public listing list business logic.
type Service interface {
	ListPublic(ctx context.Context, tenantID int, filter models.ListingFilter) ([]*models.Listing, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Search listings
// @Description Returns the published listings of the site resolved from the request host.
// @Tags Site
// @Produce  json
// @Param purpose query string false "Filter by purpose (sale or rent)"
// @Param city query string false "Filter by city"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]any "Listings"
// @Failure 404 {object} response.ErrorResponse "Site unavailable"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /site/listings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.site.listinglist"

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

	filter := adminlist.FilterFromQuery(r)
	listings, err := h.service.ListPublic(r.Context(), tenant.ID, filter)
	if err != nil {
		log.Error("failed to list published listings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list listings"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"listings": listings,
	}))
}
