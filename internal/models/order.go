package models

import "time"

// Order statuses. An order transitions pending -> paid exactly once.
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusCanceled = "canceled"
)

// Order is a purchase attempt tied to a plan. Pricing fields are a
// snapshot of the plan at creation time. TenantID is set only after
// onboarding provisions the tenant.
type Order struct {
	ID                int        `json:"id"`
	CustomerName      string     `json:"customer_name"`
	CustomerEmail     string     `json:"customer_email"`
	CustomerWhatsapp  string     `json:"customer_whatsapp,omitempty"`
	PlanCode          string     `json:"plan_code"`
	BillingCycle      string     `json:"billing_cycle"`
	Months            int        `json:"months"`
	PricePerMonth     float64    `json:"price_per_month"`
	TotalAmount       float64    `json:"total_amount"`
	MaxInstallments   int        `json:"max_installments"`
	Status            string     `json:"status"`
	ProviderPaymentID string     `json:"provider_payment_id,omitempty"`
	PaymentURL        string     `json:"payment_url,omitempty"`
	TenantID          *int       `json:"tenant_id,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CheckoutRequest is the payload of POST /api/orders/create.
type CheckoutRequest struct {
	CustomerName     string `json:"customer_name" validate:"required"`
	CustomerEmail    string `json:"customer_email" validate:"required,email"`
	CustomerWhatsapp string `json:"customer_whatsapp"`
	PlanCode         string `json:"plan_code" validate:"required"`
	MaxInstallments  int    `json:"max_installments" validate:"omitempty,gt=0"`
}
