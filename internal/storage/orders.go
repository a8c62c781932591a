package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/imobsites/platform/internal/models"
)

// CreateOrder inserts a pending order with the plan pricing snapshot and
// returns its ID.
func (s *Storage) CreateOrder(ctx context.Context, o models.Order) (int, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO orders (customer_name, customer_email, customer_whatsapp,
			      plan_code, billing_cycle, months, price_per_month, total_amount,
			      max_installments, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		o.CustomerName, o.CustomerEmail, o.CustomerWhatsapp, o.PlanCode,
		o.BillingCycle, o.Months, o.PricePerMonth, o.TotalAmount,
		o.MaxInstallments, o.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const orderColumns = `id, customer_name, customer_email, customer_whatsapp, plan_code,
			  billing_cycle, months, price_per_month, total_amount, max_installments,
			  status, provider_payment_id, payment_url, tenant_id, paid_at, created_at`

func scanOrder(scan func(dest ...any) error) (*models.Order, error) {
	var o models.Order
	var providerPaymentID, paymentURL sql.NullString
	var tenantID sql.NullInt64
	var paidAt sql.NullTime
	if err := scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerWhatsapp,
		&o.PlanCode, &o.BillingCycle, &o.Months, &o.PricePerMonth, &o.TotalAmount,
		&o.MaxInstallments, &o.Status, &providerPaymentID, &paymentURL, &tenantID,
		&paidAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.ProviderPaymentID = providerPaymentID.String
	o.PaymentURL = paymentURL.String
	if tenantID.Valid {
		id := int(tenantID.Int64)
		o.TenantID = &id
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	return &o, nil
}

// GetOrder returns an order by its ID.
func (s *Storage) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	const op = "storage.GetOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// GetOrderByProviderPaymentID is the fallback lookup for webhooks whose
// external reference is absent or unparsable.
func (s *Storage) GetOrderByProviderPaymentID(ctx context.Context, providerPaymentID string) (*models.Order, error) {
	const op = "storage.GetOrderByProviderPaymentID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE provider_payment_id = $1`
	o, err := scanOrder(s.DB.QueryRowContext(ctx, query, providerPaymentID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// AttachPaymentData stores the gateway-issued references on an order.
func (s *Storage) AttachPaymentData(ctx context.Context, id int, providerPaymentID, paymentURL string, maxInstallments int) (int, error) {
	const op = "storage.AttachPaymentData"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET provider_payment_id = $1, payment_url = $2, max_installments = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, providerPaymentID, paymentURL, maxInstallments, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// MarkOrderPaid performs the pending->paid transition as a single
// conditional update and returns the number of affected rows. Zero rows
// means the order was already paid (or missing), so concurrent duplicate
// webhook deliveries cannot both win.
func (s *Storage) MarkOrderPaid(ctx context.Context, id int, providerPaymentID string, paidAt time.Time) (int, error) {
	const op = "storage.MarkOrderPaid"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders
			  SET status = $1,
			      paid_at = $2,
			      provider_payment_id = COALESCE(NULLIF($3, ''), provider_payment_id)
			  WHERE id = $4 AND status = $5`
	result, err := s.DB.ExecContext(ctx, query,
		models.OrderStatusPaid, paidAt, providerPaymentID, id, models.OrderStatusPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// LinkOrderTenant records which tenant an order provisioned.
func (s *Storage) LinkOrderTenant(ctx context.Context, orderID, tenantID int) (int, error) {
	const op = "storage.LinkOrderTenant"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders SET tenant_id = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, tenantID, orderID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListOrders returns all orders with pagination, newest first.
func (s *Storage) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
