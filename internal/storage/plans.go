package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/imobsites/platform/internal/models"
)

// GetActivePlanByCode returns an active plan by its unique code.
// Inactive and unknown codes both resolve to ErrNotFound, so checkout
// cannot sell a retired plan.
func (s *Storage) GetActivePlanByCode(ctx context.Context, code string) (*models.Plan, error) {
	const op = "storage.GetActivePlanByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, name, billing_cycle, months, price_per_month,
			      total_amount, description_short, is_active, is_featured,
			      sort_order, features, updated_at
			  FROM plans
			  WHERE code = $1 AND is_active = true`
	var p models.Plan
	var features []byte
	err := s.DB.QueryRowContext(ctx, query, code).Scan(&p.ID, &p.Code, &p.Name,
		&p.BillingCycle, &p.Months, &p.PricePerMonth, &p.TotalAmount,
		&p.DescriptionShort, &p.IsActive, &p.IsFeatured, &p.SortOrder,
		&features, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ListActivePlans returns all purchasable plans ordered for display.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, name, billing_cycle, months, price_per_month,
			      total_amount, description_short, is_active, is_featured,
			      sort_order, features, updated_at
			  FROM plans
			  WHERE is_active = true
			  ORDER BY sort_order, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var p models.Plan
		var features []byte
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.BillingCycle, &p.Months,
			&p.PricePerMonth, &p.TotalAmount, &p.DescriptionShort, &p.IsActive,
			&p.IsFeatured, &p.SortOrder, &features, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
