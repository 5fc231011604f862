package repository

import (
	"context"
	"time"

	"github.com/abenezer/localserve/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ReviewRepository interface {
	// Create inserts the review inside the caller's transaction so the
	// rating recomputation that follows sees it.
	Create(ctx context.Context, tx *sqlx.Tx, review *models.Review) error
	// RecomputeProviderRating rewrites the provider's rating as the mean
	// of all its reviews.
	RecomputeProviderRating(ctx context.Context, tx *sqlx.Tx, providerID string) error
	ListByProviderID(ctx context.Context, providerID string) ([]*models.ReviewWithAuthor, error)
	ListByCustomerID(ctx context.Context, customerID string) ([]*models.CustomerReview, error)
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, tx *sqlx.Tx, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()

	query := `
		INSERT INTO reviews (id, customer_id, provider_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		review.ID, review.CustomerID, review.ProviderID, review.Rating,
		review.Comment, review.CreatedAt)
	return err
}

func (r *reviewRepository) RecomputeProviderRating(ctx context.Context, tx *sqlx.Tx, providerID string) error {
	query := `
		UPDATE providers
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE provider_id = $1), 0),
			updated_at = $2
		WHERE id = $1
	`
	_, err := tx.ExecContext(ctx, query, providerID, time.Now())
	return err
}

func (r *reviewRepository) ListByProviderID(ctx context.Context, providerID string) ([]*models.ReviewWithAuthor, error) {
	reviews := []*models.ReviewWithAuthor{}
	query := `
		SELECT r.*, u.name AS reviewer
		FROM reviews r
		JOIN users u ON r.customer_id = u.id
		WHERE r.provider_id = $1
		ORDER BY r.created_at DESC
	`
	err := r.db.SelectContext(ctx, &reviews, query, providerID)
	return reviews, err
}

func (r *reviewRepository) ListByCustomerID(ctx context.Context, customerID string) ([]*models.CustomerReview, error) {
	reviews := []*models.CustomerReview{}
	query := `
		SELECT r.*, p.service_type, u.name AS provider_name
		FROM reviews r
		JOIN providers p ON r.provider_id = p.id
		JOIN users u ON p.user_id = u.id
		WHERE r.customer_id = $1
		ORDER BY r.created_at DESC
	`
	err := r.db.SelectContext(ctx, &reviews, query, customerID)
	return reviews, err
}
