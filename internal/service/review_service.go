package service

import (
	"context"

	apperrors "github.com/abenezer/localserve/internal/errors"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/repository"
	"github.com/jmoiron/sqlx"
)

type ReviewService interface {
	Create(ctx context.Context, customerID string, req *models.CreateReviewRequest) (*models.Review, error)
	ListMine(ctx context.Context, customerID string) ([]*models.CustomerReview, error)
}

type reviewService struct {
	db           *sqlx.DB
	reviewRepo   repository.ReviewRepository
	providerRepo repository.ProviderRepository
}

func NewReviewService(db *sqlx.DB, reviewRepo repository.ReviewRepository, providerRepo repository.ProviderRepository) ReviewService {
	return &reviewService{
		db:           db,
		reviewRepo:   reviewRepo,
		providerRepo: providerRepo,
	}
}

func (s *reviewService) Create(ctx context.Context, customerID string, req *models.CreateReviewRequest) (*models.Review, error) {
	provider, err := s.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperrors.NotFound("provider")
	}

	review := &models.Review{
		CustomerID: customerID,
		ProviderID: provider.ID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	// Insert and rating recomputation share a transaction so the stored
	// mean never drifts from the review rows.
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.RecomputeProviderRating(ctx, tx, provider.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) ListMine(ctx context.Context, customerID string) ([]*models.CustomerReview, error) {
	return s.reviewRepo.ListByCustomerID(ctx, customerID)
}
