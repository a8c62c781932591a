// Package listing implements the tenant-scoped property inventory: CRUD
// for the admin panel and a published-only view for the public site.
package listing

import (
	"context"
	"log/slog"

	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

const defaultPageSize = 20

// Repository defines the listing persistence used by the service.
type Repository interface {
	CreateListing(ctx context.Context, tenantID int, req models.ListingRequest) (int, error)
	GetListing(ctx context.Context, tenantID, id int) (*models.Listing, error)
	GetPublishedListing(ctx context.Context, tenantID, id int) (*models.Listing, error)
	UpdateListing(ctx context.Context, tenantID, id int, req models.ListingRequest) (int, error)
	RemoveListing(ctx context.Context, tenantID, id int) (int, error)
	ListListings(ctx context.Context, tenantID int, filter models.ListingFilter, publishedOnly bool) ([]*models.Listing, error)
}

// Service implements listing management.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates a listing Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create inserts a new listing for the tenant.
func (s *Service) Create(ctx context.Context, tenantID int, req models.ListingRequest) (int, error) {
	id, err := s.repo.CreateListing(ctx, tenantID, req)
	if err != nil {
		return 0, err
	}
	s.log.Info("listing created",
		slog.Int("tenant_id", tenantID),
		slog.Int("listing_id", id),
		slog.String("reference", req.Reference))
	return id, nil
}

// Get returns a tenant's listing, drafts included.
func (s *Service) Get(ctx context.Context, tenantID, id int) (*models.Listing, error) {
	return s.repo.GetListing(ctx, tenantID, id)
}

// GetPublished returns a listing only when published, for the public
// site detail page.
func (s *Service) GetPublished(ctx context.Context, tenantID, id int) (*models.Listing, error) {
	return s.repo.GetPublishedListing(ctx, tenantID, id)
}

// Update rewrites a tenant's listing.
func (s *Service) Update(ctx context.Context, tenantID, id int, req models.ListingRequest) error {
	rowsAffected, err := s.repo.UpdateListing(ctx, tenantID, id, req)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	s.log.Info("listing updated",
		slog.Int("tenant_id", tenantID),
		slog.Int("listing_id", id))
	return nil
}

// Remove deletes a tenant's listing.
func (s *Service) Remove(ctx context.Context, tenantID, id int) error {
	rowsAffected, err := s.repo.RemoveListing(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return storage.ErrNotFound
	}
	s.log.Info("listing removed",
		slog.Int("tenant_id", tenantID),
		slog.Int("listing_id", id))
	return nil
}

// ListAdmin returns a tenant's listings including drafts.
func (s *Service) ListAdmin(ctx context.Context, tenantID int, filter models.ListingFilter) ([]*models.Listing, error) {
	return s.repo.ListListings(ctx, tenantID, normalize(filter), false)
}

// ListPublic returns a tenant's published listings for the site.
func (s *Service) ListPublic(ctx context.Context, tenantID int, filter models.ListingFilter) ([]*models.Listing, error) {
	return s.repo.ListListings(ctx, tenantID, normalize(filter), true)
}

func normalize(filter models.ListingFilter) models.ListingFilter {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = defaultPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
