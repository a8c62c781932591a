// Package list implements the admin listing list endpoint, drafts
// included.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/middlewarectx"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
)

// Handler handles admin listing lists.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the listing list business logic.
type Service interface {
	ListAdmin(ctx context.Context, tenantID int, filter models.ListingFilter) ([]*models.Listing, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List listings
// @Description Returns the session tenant's listings, drafts included.
// @Tags Listings
// @Produce  json
// @Security BearerAuth
// @Param purpose query string false "Filter by purpose (sale or rent)"
// @Param city query string false "Filter by city"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} map[string]any "Listings"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /admin/listings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.list"

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

	filter := FilterFromQuery(r)
	listings, err := h.service.ListAdmin(r.Context(), tenantID, filter)
	if err != nil {
		log.Error("failed to list listings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list listings"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"listings": listings,
	}))
}

// FilterFromQuery builds a ListingFilter from the request query string.
// Shared with the public site handlers, which filter the same way.
func FilterFromQuery(r *http.Request) models.ListingFilter {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return models.ListingFilter{
		Purpose: q.Get("purpose"),
		City:    q.Get("city"),
		Limit:   limit,
		Offset:  offset,
	}
}
