package models

import "time"

// Plan is a purchasable billing package offered to prospective tenants.
// Pricing is snapshotted onto orders at checkout time, so later edits to a
// plan never affect existing orders.
type Plan struct {
	ID               int       `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	BillingCycle     string    `json:"billing_cycle"`
	Months           int       `json:"months"`
	PricePerMonth    float64   `json:"price_per_month"`
	TotalAmount      float64   `json:"total_amount"`
	DescriptionShort string    `json:"description_short"`
	IsActive         bool      `json:"is_active"`
	IsFeatured       bool      `json:"is_featured"`
	SortOrder        int       `json:"sort_order"`
	Features         []string  `json:"features"`
	UpdatedAt        time.Time `json:"updated_at"`
}
