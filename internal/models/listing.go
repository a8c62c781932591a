package models

import "time"

// Listing purposes.
const (
	PurposeSale = "sale"
	PurposeRent = "rent"
)

// Listing is a property advertised on a tenant's public site.
type Listing struct {
	ID           int        `json:"id"`
	TenantID     int        `json:"tenant_id"`
	Reference    string     `json:"reference"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Purpose      string     `json:"purpose"`
	PropertyType string     `json:"property_type"`
	Price        float64    `json:"price"`
	Bedrooms     int        `json:"bedrooms"`
	Bathrooms    int        `json:"bathrooms"`
	AreaM2       float64    `json:"area_m2"`
	City         string     `json:"city"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	IsPublished  bool       `json:"is_published"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// ListingRequest is the admin create/update payload for a listing.
type ListingRequest struct {
	Reference    string  `json:"reference" validate:"required"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description"`
	Purpose      string  `json:"purpose" validate:"required,oneof=sale rent"`
	PropertyType string  `json:"property_type" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0"`
	AreaM2       float64 `json:"area_m2" validate:"gte=0"`
	City         string  `json:"city" validate:"required"`
	Neighborhood string  `json:"neighborhood"`
	IsPublished  bool    `json:"is_published"`
}

// ListingFilter narrows public listing queries.
type ListingFilter struct {
	Purpose string
	City    string
	Limit   int
	Offset  int
}
