// Package models contains the domain structures of the platform and the
// request types received from JSON payloads.
package models

import "time"

// Tenant statuses. Tenants are never hard-deleted, the status flips instead.
const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

// Client types: pf is a natural person, pj a company.
const (
	ClientTypePF = "pf"
	ClientTypePJ = "pj"
)

// Tenant represents one real-estate agency with isolated data and branding.
type Tenant struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Status        string     `json:"status"`
	ClientType    string     `json:"client_type"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	Whatsapp      string     `json:"whatsapp,omitempty"`
	Document      string     `json:"document,omitempty"`
	AddressStreet string     `json:"address_street,omitempty"`
	AddressCity   string     `json:"address_city,omitempty"`
	AddressState  string     `json:"address_state,omitempty"`
	AddressZip    string     `json:"address_zip,omitempty"`
	PrimaryDomain string     `json:"primary_domain,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// TenantProfileUpdate carries the admin "client data" form.
type TenantProfileUpdate struct {
	Name          string `json:"name" validate:"required"`
	ClientType    string `json:"client_type" validate:"required,oneof=pf pj"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Whatsapp      string `json:"whatsapp"`
	Document      string `json:"document"`
	AddressStreet string `json:"address_street"`
	AddressCity   string `json:"address_city"`
	AddressState  string `json:"address_state"`
	AddressZip    string `json:"address_zip"`
	PrimaryDomain string `json:"primary_domain"`
}
