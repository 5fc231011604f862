package models

import (
	"time"
)

type Review struct {
	ID         string    `db:"id" json:"id"`
	CustomerID string    `db:"customer_id" json:"customer_id"`
	ProviderID string    `db:"provider_id" json:"provider_id"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    string    `db:"comment" json:"comment"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ReviewWithAuthor is a review joined with the reviewing customer's name.
type ReviewWithAuthor struct {
	Review
	Reviewer string `db:"reviewer" json:"reviewer"`
}

// CustomerReview is a review joined with the rated provider, for the
// "my reviews" listing.
type CustomerReview struct {
	Review
	ServiceType  string `db:"service_type" json:"service_type"`
	ProviderName string `db:"provider_name" json:"provider_name"`
}

type CreateReviewRequest struct {
	ProviderID string `json:"provider_id" validate:"required,uuid4"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment"`
}
