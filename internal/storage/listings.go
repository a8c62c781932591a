package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/imobsites/platform/internal/models"
)

// CreateListing inserts a listing under a tenant and returns its ID.
func (s *Storage) CreateListing(ctx context.Context, tenantID int, req models.ListingRequest) (int, error) {
	const op = "storage.CreateListing"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO listings (tenant_id, reference, title, description, purpose,
			      property_type, price, bedrooms, bathrooms, area_m2, city,
			      neighborhood, is_published)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		tenantID, req.Reference, req.Title, req.Description, req.Purpose,
		req.PropertyType, req.Price, req.Bedrooms, req.Bathrooms, req.AreaM2,
		req.City, req.Neighborhood, req.IsPublished).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const listingColumns = `id, tenant_id, reference, title, description, purpose,
			  property_type, price, bedrooms, bathrooms, area_m2, city, neighborhood,
			  is_published, created_at, updated_at`

func scanListing(scan func(dest ...any) error) (*models.Listing, error) {
	var l models.Listing
	var updatedAt sql.NullTime
	if err := scan(&l.ID, &l.TenantID, &l.Reference, &l.Title, &l.Description,
		&l.Purpose, &l.PropertyType, &l.Price, &l.Bedrooms, &l.Bathrooms,
		&l.AreaM2, &l.City, &l.Neighborhood, &l.IsPublished, &l.CreatedAt,
		&updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		l.UpdatedAt = &updatedAt.Time
	}
	return &l, nil
}

// GetListing returns a listing by ID, scoped to a tenant so one tenant
// can never read another's inventory.
func (s *Storage) GetListing(ctx context.Context, tenantID, id int) (*models.Listing, error) {
	const op = "storage.GetListing"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 AND tenant_id = $2`
	l, err := scanListing(s.DB.QueryRowContext(ctx, query, id, tenantID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// GetPublishedListing returns a published listing for the public site.
func (s *Storage) GetPublishedListing(ctx context.Context, tenantID, id int) (*models.Listing, error) {
	const op = "storage.GetPublishedListing"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + listingColumns + `
			  FROM listings
			  WHERE id = $1 AND tenant_id = $2 AND is_published = true`
	l, err := scanListing(s.DB.QueryRowContext(ctx, query, id, tenantID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// UpdateListing rewrites a tenant's listing and returns the number of
// changed rows.
func (s *Storage) UpdateListing(ctx context.Context, tenantID, id int, req models.ListingRequest) (int, error) {
	const op = "storage.UpdateListing"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE listings
			  SET reference = $1, title = $2, description = $3, purpose = $4,
			      property_type = $5, price = $6, bedrooms = $7, bathrooms = $8,
			      area_m2 = $9, city = $10, neighborhood = $11, is_published = $12,
			      updated_at = NOW()
			  WHERE id = $13 AND tenant_id = $14`
	result, err := s.DB.ExecContext(ctx, query,
		req.Reference, req.Title, req.Description, req.Purpose, req.PropertyType,
		req.Price, req.Bedrooms, req.Bathrooms, req.AreaM2, req.City,
		req.Neighborhood, req.IsPublished, id, tenantID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveListing deletes a tenant's listing and returns the number of
// removed rows.
func (s *Storage) RemoveListing(ctx context.Context, tenantID, id int) (int, error) {
	const op = "storage.RemoveListing"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM listings WHERE id = $1 AND tenant_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListListings returns a tenant's listings, optionally narrowed by
// purpose and city. Published-only is enforced by the caller through the
// publishedOnly flag so the admin panel can see drafts too.
func (s *Storage) ListListings(ctx context.Context, tenantID int, filter models.ListingFilter, publishedOnly bool) ([]*models.Listing, error) {
	const op = "storage.ListListings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + listingColumns + ` FROM listings WHERE tenant_id = $1`)
	args := []any{tenantID}
	if publishedOnly {
		b.WriteString(` AND is_published = true`)
	}
	if filter.Purpose != "" {
		args = append(args, filter.Purpose)
		b.WriteString(` AND purpose = $` + strconv.Itoa(len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		b.WriteString(` AND city ILIKE $` + strconv.Itoa(len(args)))
	}
	b.WriteString(` ORDER BY id DESC`)
	args = append(args, filter.Limit)
	b.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	b.WriteString(` OFFSET $` + strconv.Itoa(len(args)))

	rows, err := s.DB.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
