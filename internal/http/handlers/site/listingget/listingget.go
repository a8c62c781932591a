// Package listingget implements the public site listing detail page.
package listingget

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/middlewarectx"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// Handler handles public listing detail requests.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the published listing read.
type Service interface {
	GetPublished(ctx context.Context, tenantID, id int) (*models.Listing, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Read a listing
// @Description Returns one published listing of the site resolved from the request host.
// @Tags Site
// @Produce  json
// @Param id path int true "Listing ID"
// @Success 200 {object} map[string]any "Listing"
// @Failure 400 {object} response.ErrorResponse "Invalid id"
// @Failure 404 {object} response.ErrorResponse "Listing not found or site unavailable"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /site/listings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.site.listingget"

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

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	listing, err := h.service.GetPublished(r.Context(), tenant.ID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("listing not found"))
			return
		}
		log.Error("failed to read listing", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read listing"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"listing": listing,
	}))
}
