package models

import (
	"time"
)

// Provider approval status constants
const (
	ProviderStatusPending  = "pending"
	ProviderStatusApproved = "approved"
	ProviderStatusBlocked  = "blocked"
)

type Provider struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	ServiceType   string    `db:"service_type" json:"service_type"`
	Location      string    `db:"location" json:"location"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Description   string    `db:"description" json:"description"`
	Status        string    `db:"status" json:"status"`
	Rating        float64   `db:"rating" json:"rating"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProviderListing is a provider row joined with its owner account.
type ProviderListing struct {
	Provider
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

type UpdateProviderProfileRequest struct {
	ServiceType   string `json:"service_type,omitempty" validate:"omitempty,max=100"`
	Location      string `json:"location" validate:"max=150"`
	ContactNumber string `json:"contact_number" validate:"max=30"`
	Description   string `json:"description"`
}

type UpdateProviderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProviderProfileResponse is what a provider sees for their own profile:
// the joined listing plus reviews and any open service change request.
type ProviderProfileResponse struct {
	ProviderListing
	Reviews        []*ReviewWithAuthor   `json:"reviews"`
	PendingRequest *ServiceChangeRequest `json:"pending_request,omitempty"`
}

// ProviderDetailResponse is the public detail view of a provider.
type ProviderDetailResponse struct {
	ProviderListing
	Reviews []*ReviewWithAuthor `json:"reviews"`
}

func IsValidProviderStatus(status string) bool {
	return status == ProviderStatusPending || status == ProviderStatusApproved || status == ProviderStatusBlocked
}
