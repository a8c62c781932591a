package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/imobsites/platform/internal/models"
)

// CreateTenant inserts a new tenant and returns its ID.
func (s *Storage) CreateTenant(ctx context.Context, t models.Tenant) (int, error) {
	const op = "storage.CreateTenant"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tenants (name, slug, status, client_type, email, phone,
			      whatsapp, document, address_street, address_city, address_state,
			      address_zip, primary_domain)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		t.Name, t.Slug, t.Status, t.ClientType, t.Email, t.Phone, t.Whatsapp,
		t.Document, t.AddressStreet, t.AddressCity, t.AddressState, t.AddressZip,
		t.PrimaryDomain).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const tenantColumns = `id, name, slug, status, client_type, email, phone, whatsapp,
			  document, address_street, address_city, address_state, address_zip,
			  primary_domain, created_at, updated_at`

func scanTenant(row *sql.Row) (*models.Tenant, error) {
	var t models.Tenant
	var updatedAt sql.NullTime
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &t.ClientType, &t.Email,
		&t.Phone, &t.Whatsapp, &t.Document, &t.AddressStreet, &t.AddressCity,
		&t.AddressState, &t.AddressZip, &t.PrimaryDomain, &t.CreatedAt,
		&updatedAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}
	return &t, nil
}

// GetTenantByID returns a tenant by its ID.
func (s *Storage) GetTenantByID(ctx context.Context, id int) (*models.Tenant, error) {
	const op = "storage.GetTenantByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	t, err := scanTenant(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// GetTenantByHost resolves a tenant for an inbound host: first by exact
// primary_domain match, then by slug (subdomain label).
func (s *Storage) GetTenantByHost(ctx context.Context, host, slug string) (*models.Tenant, error) {
	const op = "storage.GetTenantByHost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + tenantColumns + `
			  FROM tenants
			  WHERE primary_domain = $1 OR slug = $2
			  ORDER BY (primary_domain = $1) DESC
			  LIMIT 1`
	t, err := scanTenant(s.DB.QueryRowContext(ctx, query, host, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// UpdateTenantProfile updates the tenant "client data" form fields and
// returns the number of changed rows.
func (s *Storage) UpdateTenantProfile(ctx context.Context, id int, req models.TenantProfileUpdate) (int, error) {
	const op = "storage.UpdateTenantProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tenants
			  SET name = $1, client_type = $2, email = $3, phone = $4, whatsapp = $5,
			      document = $6, address_street = $7, address_city = $8,
			      address_state = $9, address_zip = $10, primary_domain = $11,
			      updated_at = NOW()
			  WHERE id = $12`
	result, err := s.DB.ExecContext(ctx, query,
		req.Name, req.ClientType, req.Email, req.Phone, req.Whatsapp, req.Document,
		req.AddressStreet, req.AddressCity, req.AddressState, req.AddressZip,
		req.PrimaryDomain, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateTenantStatus flips a tenant between active and suspended.
func (s *Storage) UpdateTenantStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdateTenantStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tenants SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListTenants returns all tenants with pagination, newest first.
func (s *Storage) ListTenants(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	const op = "storage.ListTenants"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + tenantColumns + `
			  FROM tenants
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Tenant
	for rows.Next() {
		var t models.Tenant
		var updatedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &t.ClientType,
			&t.Email, &t.Phone, &t.Whatsapp, &t.Document, &t.AddressStreet,
			&t.AddressCity, &t.AddressState, &t.AddressZip, &t.PrimaryDomain,
			&t.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updatedAt.Valid {
			t.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
