// Package create implements the public checkout endpoint.
//
// Handler validates the checkout payload, creates a pending order with
// a snapshot of the chosen plan and returns the gateway payment link.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/imobsites/platform/internal/asaas"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/services/order"
)

// Handler handles checkout requests.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service describes the checkout business logic.
type Service interface {
	CreateFromCheckout(ctx context.Context, req models.CheckoutRequest) (*order.CheckoutResult, error)
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
// @Summary Create an order
// @Description Creates a pending order for a plan and returns the payment link.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.CheckoutRequest true "Checkout data"
// @Success 200 {object} map[string]any "Order created"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 422 {object} response.ErrorResponse "Validation error or unknown plan"
// @Failure 502 {object} response.ErrorResponse "Billing gateway unavailable"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Router /orders/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckoutRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("plan_code", req.PlanCode))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.CreateFromCheckout(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrPlanNotFound):
			log.Error("unknown plan", slog.String("plan_code", req.PlanCode))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, asaas.ErrGateway):
			log.Error("billing gateway failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("billing gateway unavailable"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("order created", slog.Int("order_id", result.OrderID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_id":    result.OrderID,
		"payment_url": result.PaymentURL,
	}))
}
