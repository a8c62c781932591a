package storage

import (
	"context"
	"fmt"
)

// Default branding settings applied to a freshly provisioned tenant.
var defaultSettings = map[string]string{
	"site_title":      "",
	"primary_color":   "#1f3c88",
	"secondary_color": "#f5a623",
	"contact_email":   "",
	"contact_phone":   "",
	"logo_url":        "",
}

// GetSettings returns a tenant's branding key/values.
func (s *Storage) GetSettings(ctx context.Context, tenantID int) (map[string]string, error) {
	const op = "storage.GetSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT key, value FROM tenant_settings WHERE tenant_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertSetting writes a single branding key/value for a tenant.
func (s *Storage) UpsertSetting(ctx context.Context, tenantID int, key, value string) error {
	const op = "storage.UpsertSetting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tenant_settings (tenant_id, key, value)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (tenant_id, key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.DB.ExecContext(ctx, query, tenantID, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// EnsureDefaultSettings lazily creates the default branding rows for a
// tenant, leaving existing keys untouched.
func (s *Storage) EnsureDefaultSettings(ctx context.Context, tenantID int) error {
	const op = "storage.EnsureDefaultSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tenant_settings (tenant_id, key, value)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (tenant_id, key) DO NOTHING`
	for key, value := range defaultSettings {
		if _, err := s.DB.ExecContext(ctx, query, tenantID, key, value); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
