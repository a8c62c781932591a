// Package order implements checkout: order creation with a plan price
// snapshot, charge creation on the billing gateway and the paid
// transition driven by webhooks.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/imobsites/platform/internal/asaas"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// ErrPlanNotFound marks checkout requests for unknown or inactive plans.
var ErrPlanNotFound = errors.New("plan not found")

// Repository defines the order persistence used by the service.
type Repository interface {
	CreateOrder(ctx context.Context, o models.Order) (int, error)
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	GetOrderByProviderPaymentID(ctx context.Context, providerPaymentID string) (*models.Order, error)
	AttachPaymentData(ctx context.Context, id int, providerPaymentID, paymentURL string, maxInstallments int) (int, error)
	MarkOrderPaid(ctx context.Context, id int, providerPaymentID string, paidAt time.Time) (int, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	GetActivePlanByCode(ctx context.Context, code string) (*models.Plan, error)
}

// Gateway defines the billing gateway calls used by checkout.
type Gateway interface {
	CreatePayment(orderID int, customerName, customerEmail, customerWhatsapp, description string, totalAmount float64, maxInstallments int) (*asaas.CreatePaymentResponse, error)
}

// CheckoutResult is returned to the checkout handler.
type CheckoutResult struct {
	OrderID    int
	PaymentURL string
}

// Service implements the order business logic.
type Service struct {
	repo    Repository
	gateway Gateway
	log     *slog.Logger
}

// New creates an order Service.
func New(repo Repository, gateway Gateway, log *slog.Logger) *Service {
	return &Service{repo: repo, gateway: gateway, log: log}
}

// CreateFromCheckout validates the plan, snapshots its pricing into a
// pending order and creates the charge on the gateway. Gateway failures
// leave the pending order in place and bubble up asaas.ErrGateway.
func (s *Service) CreateFromCheckout(ctx context.Context, req models.CheckoutRequest) (*CheckoutResult, error) {
	plan, err := s.repo.GetActivePlanByCode(ctx, req.PlanCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, req.PlanCode)
		}
		return nil, err
	}

	maxInstallments := req.MaxInstallments
	if maxInstallments <= 0 || maxInstallments > plan.Months {
		maxInstallments = 1
	}

	totalAmount := math.Round(plan.PricePerMonth*float64(plan.Months)*100) / 100
	whatsapp := normalizeWhatsapp(req.CustomerWhatsapp)

	entry := models.Order{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerWhatsapp: whatsapp,
		PlanCode:         plan.Code,
		BillingCycle:     plan.BillingCycle,
		Months:           plan.Months,
		PricePerMonth:    plan.PricePerMonth,
		TotalAmount:      totalAmount,
		MaxInstallments:  maxInstallments,
		Status:           models.OrderStatusPending,
	}

	orderID, err := s.repo.CreateOrder(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("created pending order",
		slog.Int("order_id", orderID),
		slog.String("plan_code", plan.Code))

	payment, err := s.gateway.CreatePayment(orderID, req.CustomerName, req.CustomerEmail,
		whatsapp, plan.Name, totalAmount, maxInstallments)
	if err != nil {
		s.log.Error("gateway charge failed", slog.Int("order_id", orderID), slog.Any("err", err))
		return nil, err
	}

	if _, err := s.repo.AttachPaymentData(ctx, orderID, payment.ID, payment.InvoiceURL, maxInstallments); err != nil {
		return nil, err
	}

	return &CheckoutResult{OrderID: orderID, PaymentURL: payment.InvoiceURL}, nil
}

// normalizeWhatsapp strips formatting from the optional WhatsApp field,
// keeping digits only: "+55 (11) 98888-7777" becomes "5511988887777".
func normalizeWhatsapp(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveWebhookOrder finds the order a webhook event refers to: the
// external reference first, then the provider payment id.
func (s *Service) ResolveWebhookOrder(ctx context.Context, externalReference, providerPaymentID string) (*models.Order, error) {
	if id, ok := asaas.ParseOrderReference(externalReference); ok {
		entry, err := s.repo.GetOrder(ctx, id)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	if providerPaymentID != "" {
		return s.repo.GetOrderByProviderPaymentID(ctx, providerPaymentID)
	}
	return nil, storage.ErrNotFound
}

// MarkPaid performs the pending->paid transition. The returned bool is
// true only when this call actually transitioned the order, so duplicate
// webhook deliveries trigger onboarding exactly once.
func (s *Service) MarkPaid(ctx context.Context, orderID int, providerPaymentID string) (bool, error) {
	rowsAffected, err := s.repo.MarkOrderPaid(ctx, orderID, providerPaymentID, time.Now())
	if err != nil {
		return false, err
	}
	if rowsAffected == 0 {
		s.log.Info("order already paid, skipping", slog.Int("order_id", orderID))
		return false, nil
	}
	s.log.Info("order marked paid", slog.Int("order_id", orderID))
	return true, nil
}

// List returns orders for the reseller panel.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	return s.repo.ListOrders(ctx, limit, offset)
}
