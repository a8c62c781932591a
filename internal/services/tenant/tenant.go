// Package tenant implements host based tenant resolution with Redis
// caching plus the profile, settings and status operations of the admin
// and reseller panels.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imobsites/platform/internal/cache"
	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

// FallbackTenantID serves requests whose host matches no tenant.
const FallbackTenantID = 1

const tenantCacheTTL = 5 * time.Minute

// Repository defines the tenant persistence used by the service.
type Repository interface {
	GetTenantByID(ctx context.Context, id int) (*models.Tenant, error)
	GetTenantByHost(ctx context.Context, host, slug string) (*models.Tenant, error)
	UpdateTenantProfile(ctx context.Context, id int, req models.TenantProfileUpdate) (int, error)
	UpdateTenantStatus(ctx context.Context, id int, status string) (int, error)
	ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
	GetSettings(ctx context.Context, tenantID int) (map[string]string, error)
	UpsertSetting(ctx context.Context, tenantID int, key, value string) error
}

// Cache defines the caching backend.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implements tenant resolution and management.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New creates a tenant Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// ResolveHost maps a request host to its tenant: exact primary domain
// first, then the first host label as a slug, then the platform fallback
// tenant. The result is cached per host.
func (s *Service) ResolveHost(ctx context.Context, host string) (*models.Tenant, error) {
	cacheKey := cache.TenantKey(host)

	var cached models.Tenant
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("tenant cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	slug := host
	if i := strings.IndexByte(host, '.'); i > 0 {
		slug = host[:i]
	}

	tenant, err := s.repo.GetTenantByHost(ctx, host, slug)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		tenant, err = s.repo.GetTenantByID(ctx, FallbackTenantID)
		if err != nil {
			return nil, fmt.Errorf("fallback tenant missing: %w", err)
		}
	}

	if err := s.cache.Set(cacheKey, tenant, tenantCacheTTL); err != nil {
		s.log.Warn("failed to cache tenant", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return tenant, nil
}

// GetProfile returns a tenant's client data for the admin panel.
func (s *Service) GetProfile(ctx context.Context, tenantID int) (*models.Tenant, error) {
	return s.repo.GetTenantByID(ctx, tenantID)
}

// UpdateProfile rewrites the tenant client data and drops every cached
// resolution of its domains.
func (s *Service) UpdateProfile(ctx context.Context, tenantID int, req models.TenantProfileUpdate) error {
	current, err := s.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return err
	}

	rowsAffected, err := s.repo.UpdateTenantProfile(ctx, tenantID, req)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	s.log.Info("tenant profile updated", slog.Int("tenant_id", tenantID))

	s.invalidateHosts(current, req.PrimaryDomain)
	return nil
}

// SetStatus flips a tenant between active and suspended.
func (s *Service) SetStatus(ctx context.Context, tenantID int, status string) error {
	if status != models.TenantStatusActive && status != models.TenantStatusSuspended {
		return fmt.Errorf("unsupported tenant status: %s", status)
	}

	current, err := s.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return err
	}

	rowsAffected, err := s.repo.UpdateTenantStatus(ctx, tenantID, status)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	s.log.Info("tenant status updated",
		slog.Int("tenant_id", tenantID),
		slog.String("status", status))

	s.invalidateHosts(current, "")
	return nil
}

// List returns tenants for the reseller panel.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	return s.repo.ListTenants(ctx, limit, offset)
}

// GetSettings returns the tenant branding key/values.
func (s *Service) GetSettings(ctx context.Context, tenantID int) (map[string]string, error) {
	return s.repo.GetSettings(ctx, tenantID)
}

// UpdateSettings upserts the given branding key/values.
func (s *Service) UpdateSettings(ctx context.Context, tenantID int, settings map[string]string) error {
	for key, value := range settings {
		if err := s.repo.UpsertSetting(ctx, tenantID, key, value); err != nil {
			return err
		}
	}
	s.log.Info("tenant settings updated", slog.Int("tenant_id", tenantID))
	return nil
}

func (s *Service) invalidateHosts(t *models.Tenant, newDomain string) {
	for _, host := range []string{t.PrimaryDomain, newDomain} {
		if host == "" {
			continue
		}
		if err := s.cache.Invalidate(cache.TenantKey(host)); err != nil {
			s.log.Warn("failed to invalidate tenant cache", slog.String("host", host), slog.Any("err", err))
		}
	}
}
