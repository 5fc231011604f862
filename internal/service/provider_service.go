package service

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/abenezer/localserve/internal/errors"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/repository"
	"github.com/jmoiron/sqlx"
)

type ProviderService interface {
	Search(ctx context.Context, service, location string) ([]*models.ProviderListing, error)
	GetDetail(ctx context.Context, providerID string) (*models.ProviderDetailResponse, error)
	GetMyProfile(ctx context.Context, userID string) (*models.ProviderProfileResponse, error)
	// UpdateMyProfile applies location/contact/description edits. When the
	// submitted service type differs from the stored one, it additionally
	// records a service change request for admin approval and returns it;
	// the service type itself is not changed until an admin approves.
	UpdateMyProfile(ctx context.Context, userID string, req *models.UpdateProviderProfileRequest) (*models.ServiceChangeRequest, error)
}

type providerService struct {
	db           *sqlx.DB
	providerRepo repository.ProviderRepository
	reviewRepo   repository.ReviewRepository
	requestRepo  repository.ServiceChangeRequestRepository
}

func NewProviderService(
	db *sqlx.DB,
	providerRepo repository.ProviderRepository,
	reviewRepo repository.ReviewRepository,
	requestRepo repository.ServiceChangeRequestRepository,
) ProviderService {
	return &providerService{
		db:           db,
		providerRepo: providerRepo,
		reviewRepo:   reviewRepo,
		requestRepo:  requestRepo,
	}
}

func (s *providerService) Search(ctx context.Context, service, location string) ([]*models.ProviderListing, error) {
	return s.providerRepo.Search(ctx, strings.TrimSpace(service), strings.TrimSpace(location))
}

func (s *providerService) GetDetail(ctx context.Context, providerID string) (*models.ProviderDetailResponse, error) {
	listing, err := s.providerRepo.GetListingByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperrors.NotFound("provider")
	}

	reviews, err := s.reviewRepo.ListByProviderID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}

	return &models.ProviderDetailResponse{
		ProviderListing: *listing,
		Reviews:         reviews,
	}, nil
}

func (s *providerService) GetMyProfile(ctx context.Context, userID string) (*models.ProviderProfileResponse, error) {
	listing, err := s.providerRepo.GetListingByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, apperrors.NotFound("provider")
	}

	reviews, err := s.reviewRepo.ListByProviderID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}

	pending, err := s.requestRepo.GetPendingByProviderID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}

	return &models.ProviderProfileResponse{
		ProviderListing: *listing,
		Reviews:         reviews,
		PendingRequest:  pending,
	}, nil
}

func (s *providerService) UpdateMyProfile(ctx context.Context, userID string, req *models.UpdateProviderProfileRequest) (*models.ServiceChangeRequest, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The provider row lock serializes concurrent submissions from the
	// same provider, so the pending-existence check below cannot race.
	provider, err := s.providerRepo.GetByUserIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, apperrors.NotFound("provider")
	}

	var created *models.ServiceChangeRequest
	requested := strings.TrimSpace(req.ServiceType)
	if requested != "" && requested != provider.ServiceType {
		pending, err := s.requestRepo.HasPending(ctx, tx, provider.ID)
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, apperrors.PendingRequestExists()
		}

		created = &models.ServiceChangeRequest{
			ProviderID:       provider.ID,
			OldService:       provider.ServiceType,
			RequestedService: requested,
		}
		if err := s.requestRepo.Create(ctx, tx, created); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, apperrors.PendingRequestExists()
			}
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE providers
		SET location = $1, contact_number = $2, description = $3, updated_at = $4
		WHERE id = $5`,
		strings.TrimSpace(req.Location), strings.TrimSpace(req.ContactNumber),
		req.Description, time.Now(), provider.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}
