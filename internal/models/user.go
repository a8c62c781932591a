package models

import "time"

// User roles. Masters operate the reseller panel across tenants.
const (
	RoleAdmin  = "admin"
	RoleMaster = "master"
)

// User is an admin account scoped to a tenant. Onboarding creates users
// inactive, holding a single-use activation token with a fixed expiry.
type User struct {
	ID                  int        `json:"id"`
	TenantID            int        `json:"tenant_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                string     `json:"role"`
	Active              bool       `json:"active"`
	ActivationToken     *string    `json:"-"`
	ActivationExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
}

// LoginRequest is the payload of POST /api/admin/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ActivationRequest is the payload of POST /api/account/activation.
type ActivationRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	AcceptTerms     bool   `json:"accept_terms" validate:"required"`
}
