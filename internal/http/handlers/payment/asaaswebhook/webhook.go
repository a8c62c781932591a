// Package asaaswebhook implements the billing gateway callback.
//
// Handler authenticates the webhook token, resolves the order the event
// refers to and drives the paid transition plus tenant provisioning.
// Events that cannot possibly be processed (unknown order, non-payment
// event) are acknowledged with 200 so the gateway stops retrying them;
// transient failures answer 500 so delivery is retried.
package asaaswebhook

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/imobsites/platform/internal/asaas"
	"github.com/imobsites/platform/internal/http/response"
	"github.com/imobsites/platform/internal/lib/sl"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// TokenHeader carries the webhook token configured on the gateway.
const TokenHeader = "asaas-access-token"

// OrderService describes the order operations driven by the webhook.
type OrderService interface {
	ResolveWebhookOrder(ctx context.Context, externalReference, providerPaymentID string) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID int, providerPaymentID string) (bool, error)
}

// OnboardingService provisions the tenant after the paid transition.
type OnboardingService interface {
	ProvisionPaidOrder(ctx context.Context, orderID int) error
}

// Handler handles gateway webhook deliveries.
type Handler struct {
	log          *slog.Logger
	orders       OrderService
	onboarding   OnboardingService
	webhookToken string
}

// New creates a Handler.
func New(log *slog.Logger, orders OrderService, onboarding OnboardingService, webhookToken string) *Handler {
	return &Handler{
		log:          log,
		orders:       orders,
		onboarding:   onboarding,
		webhookToken: webhookToken,
	}
}

// ServeHTTP godoc
// @Summary Billing gateway webhook
// @Description Receives payment events from the billing gateway.
// @Tags Webhooks
// @Accept  json
// @Produce  json
// @Param asaas-access-token header string true "Webhook token"
// @Success 200 {object} response.Response "Event acknowledged"
// @Failure 403 {object} response.ErrorResponse "Invalid webhook token"
// @Failure 500 {object} response.ErrorResponse "Processing failed, delivery will be retried"
// @Router /webhooks/asaas [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.asaaswebhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if !h.tokenValid(r.Header.Get(TokenHeader)) {
		log.Error("invalid webhook token")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	}

	var event asaas.WebhookEvent
	if err := render.DecodeJSON(r.Body, &event); err != nil {
		// Malformed payloads will never parse on redelivery either.
		log.Warn("unparseable webhook body, acknowledging", sl.Err(err))
		render.JSON(w, r, response.OK())
		return
	}
	log.Info("webhook event received",
		slog.String("event", event.Event),
		slog.String("payment_id", event.Payment.ID),
		slog.String("payment_status", event.Payment.Status))

	if !asaas.IsPaidEvent(event) {
		log.Info("ignoring non-payment event", slog.String("event", event.Event))
		render.JSON(w, r, response.OK())
		return
	}

	entry, err := h.orders.ResolveWebhookOrder(r.Context(), event.Payment.ExternalReference, event.Payment.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("webhook for unknown order, acknowledging",
				slog.String("external_reference", event.Payment.ExternalReference),
				slog.String("payment_id", event.Payment.ID))
			render.JSON(w, r, response.OK())
			return
		}
		log.Error("failed to resolve webhook order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process event"))
		return
	}

	transitioned, err := h.orders.MarkPaid(r.Context(), entry.ID, event.Payment.ID)
	if err != nil {
		log.Error("failed to mark order paid", slog.Int("order_id", entry.ID), sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process event"))
		return
	}

	if transitioned {
		if err := h.onboarding.ProvisionPaidOrder(r.Context(), entry.ID); err != nil {
			log.Error("failed to provision tenant", slog.Int("order_id", entry.ID), sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process event"))
			return
		}
	}

	render.JSON(w, r, response.OK())
}

// tokenValid compares the received token against the configured one in
// constant time.
func (h *Handler) tokenValid(got string) bool {
	if h.webhookToken == "" {
		return false
	}
	want := sha256.Sum256([]byte(h.webhookToken))
	have := sha256.Sum256([]byte(got))
	return subtle.ConstantTimeCompare(want[:], have[:]) == 1
}
