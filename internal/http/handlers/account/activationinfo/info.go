// Package activationinfo implements the activation page lookup: given a
// token it tells the frontend whether the link is usable and for which
// (masked) account.
package activationinfo

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/services/activation"
)

// Handler handles activation token lookups.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service describes the activation token inspection.
type Service interface {
	InspectToken(ctx context.Context, token string) (*activation.TokenInfo, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Inspect activation token
// @Description Reports whether an activation token is valid, expired or unknown.
// @Tags Account
// @Produce  json
// @Param token query string true "Activation token"
// @Success 200 {object} map[string]any "Token state"
// @Failure 400 {object} response.ErrorResponse "Missing token"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /account/activation [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.activationinfo"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("token")
	if token == "" {
		log.Error("missing token query parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing token"))
		return
	}

	info, err := h.service.InspectToken(r.Context(), token)
	if err != nil {
		log.Error("failed to inspect activation token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not inspect token"))
		return
	}

	render.JSON(w, r, response.OKWithData(info))
}
