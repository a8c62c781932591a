// Package activate implements account activation: the new admin sets a
// password through the emailed link and receives a session token.
package activate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/services/activation"
)

// Handler handles account activation requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the activation business logic.
type Service interface {
	Activate(ctx context.Context, req models.ActivationRequest) (*activation.ActivationResult, error)
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Activate account
// @Description Sets the account password, activates the user and returns a session token.
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body models.ActivationRequest true "Activation data"
// @Success 200 {object} map[string]any "Account activated"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON, mismatch or terms not accepted"
// @Failure 410 {object} response.ErrorResponse "Token expired or already used"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /account/activation [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.ActivationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Activate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, activation.ErrPasswordMismatch):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("passwords do not match"))
		case errors.Is(err, activation.ErrTermsNotAccepted):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("terms must be accepted"))
		case errors.Is(err, activation.ErrTokenExpired):
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("activation link expired"))
		case errors.Is(err, activation.ErrTokenInvalid):
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("activation link invalid or already used"))
		default:
			log.Error("failed to activate account", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not activate account"))
		}
		return
	}

	log.Info("account activated", slog.Int("tenant_id", result.TenantID))
	render.JSON(w, r, response.OKWithData(result))
}
