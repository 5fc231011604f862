package models

import (
	"time"
)

// Service change request states. PENDING is the only non-terminal state.
const (
	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

type ServiceChangeRequest struct {
	ID               string    `db:"id" json:"id"`
	ProviderID       string    `db:"provider_id" json:"provider_id"`
	OldService       string    `db:"old_service" json:"old_service"`
	RequestedService string    `db:"requested_service" json:"requested_service"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ServiceChangeListing is a request joined with the provider it targets,
// so admins can see who is asking and where they operate.
type ServiceChangeListing struct {
	ServiceChangeRequest
	ProviderName string `db:"provider_name" json:"provider_name"`
	Location     string `db:"location" json:"location"`
}

type ResolveServiceChangeRequest struct {
	Status string `json:"status" validate:"required"`
}

func IsValidDecision(decision string) bool {
	return decision == RequestStatusApproved || decision == RequestStatusRejected
}
