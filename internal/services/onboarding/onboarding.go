// Package onboarding provisions a tenant from a freshly paid order:
// tenant row, default branding, inactive admin user with an activation
// token and the activation email message.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"

	"github.com/imobsites/platform/internal/lib/slug"
	"github.com/imobsites/platform/internal/lib/token"
)

// ActivationTokenTTL bounds how long an activation link stays valid.
const ActivationTokenTTL = 48 * time.Hour

// Repository defines the persistence used by onboarding.
type Repository interface {
	GetOrder(ctx context.Context, id int) (*models.Order, error)
	GetActivePlanByCode(ctx context.Context, code string) (*models.Plan, error)
	CreateTenant(ctx context.Context, t models.Tenant) (int, error)
	EnsureDefaultSettings(ctx context.Context, tenantID int) error
	UpsertSetting(ctx context.Context, tenantID int, key, value string) error
	CreateUser(ctx context.Context, u models.User) (int, error)
	LinkOrderTenant(ctx context.Context, orderID, tenantID int) (int, error)
}

// Publisher sends the activation email message to the mailer queue.
type Publisher interface {
	PublishActivationMail(mail models.ActivationMail) error
}

// Service implements tenant provisioning.
type Service struct {
	repo            Repository
	publisher       Publisher
	platformBaseURL string
	log             *slog.Logger
}

// New creates an onboarding Service.
func New(repo Repository, publisher Publisher, platformBaseURL string, log *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		publisher:       publisher,
		platformBaseURL: platformBaseURL,
		log:             log,
	}
}

// ProvisionPaidOrder creates the tenant and admin user for a paid order.
// Orders already linked to a tenant are a no-op, so a webhook replay
// that slips past the status guard cannot provision twice.
func (s *Service) ProvisionPaidOrder(ctx context.Context, orderID int) error {
	const op = "onboarding.ProvisionPaidOrder"

	entry, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if entry.TenantID != nil {
		s.log.Info("order already provisioned",
			slog.Int("order_id", orderID),
			slog.Int("tenant_id", *entry.TenantID))
		return nil
	}

	tenantSlug := slug.Make(entry.CustomerName)
	if tenantSlug == "" {
		tenantSlug = "tenant"
	}
	// Random suffix keeps slugs unique without a read-check race.
	tenantSlug = tenantSlug + "-" + uuid.NewString()[:8]

	tenantID, err := s.repo.CreateTenant(ctx, models.Tenant{
		Name:       entry.CustomerName,
		Slug:       tenantSlug,
		Status:     models.TenantStatusActive,
		ClientType: models.ClientTypePF,
		Email:      entry.CustomerEmail,
		Whatsapp:   entry.CustomerWhatsapp,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.EnsureDefaultSettings(ctx, tenantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpsertSetting(ctx, tenantID, "site_title", entry.CustomerName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	activationToken, err := token.New()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	expiresAt := time.Now().Add(ActivationTokenTTL)

	if _, err := s.repo.CreateUser(ctx, models.User{
		TenantID:            tenantID,
		Name:                entry.CustomerName,
		Email:               entry.CustomerEmail,
		Role:                models.RoleAdmin,
		Active:              false,
		ActivationToken:     &activationToken,
		ActivationExpiresAt: &expiresAt,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.repo.LinkOrderTenant(ctx, orderID, tenantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	planName := entry.PlanCode
	if plan, err := s.repo.GetActivePlanByCode(ctx, entry.PlanCode); err == nil {
		planName = plan.Name
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	mail := models.ActivationMail{
		OrderID:       orderID,
		TenantID:      tenantID,
		TenantName:    entry.CustomerName,
		PlanName:      planName,
		TotalAmount:   entry.TotalAmount,
		Email:         entry.CustomerEmail,
		ActivationURL: fmt.Sprintf("%s/ativar-conta?token=%s", s.platformBaseURL, activationToken),
	}
	if err := s.publisher.PublishActivationMail(mail); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("tenant provisioned",
		slog.Int("order_id", orderID),
		slog.Int("tenant_id", tenantID),
		slog.String("slug", tenantSlug))
	return nil
}
