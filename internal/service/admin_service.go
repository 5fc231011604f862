package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/abenezer/localserve/internal/auth"
	"github.com/abenezer/localserve/internal/cache"
	apperrors "github.com/abenezer/localserve/internal/errors"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AdminService interface {
	ListProviders(ctx context.Context, caller *auth.Claims, regionFilter string) ([]*models.ProviderListing, error)
	ListUsers(ctx context.Context, caller *auth.Claims, regionFilter, roleFilter string) ([]*models.User, error)
	ListServiceChangeRequests(ctx context.Context, caller *auth.Claims, regionFilter string) ([]*models.ServiceChangeListing, error)
	SetProviderStatus(ctx context.Context, caller *auth.Claims, providerID, status string) error
	ResolveServiceChange(ctx context.Context, caller *auth.Claims, requestID, decision string) error
	CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) error
}

type adminService struct {
	db           *sqlx.DB
	userRepo     repository.UserRepository
	providerRepo repository.ProviderRepository
	requestRepo  repository.ServiceChangeRequestRepository
	regionRepo   repository.RegionRepository
	regionCache  cache.RegionCache
}

func NewAdminService(
	db *sqlx.DB,
	userRepo repository.UserRepository,
	providerRepo repository.ProviderRepository,
	requestRepo repository.ServiceChangeRequestRepository,
	regionRepo repository.RegionRepository,
	regionCache cache.RegionCache,
) AdminService {
	return &adminService{
		db:           db,
		userRepo:     userRepo,
		providerRepo: providerRepo,
		requestRepo:  requestRepo,
		regionRepo:   regionRepo,
		regionCache:  regionCache,
	}
}

// resolveRegion returns the stored region of the calling admin. An admin
// without one gets "" and fails closed downstream: no rows visible, no
// mutations allowed.
func (s *adminService) resolveRegion(ctx context.Context, adminID string) (string, error) {
	admin, err := s.userRepo.GetByID(ctx, adminID)
	if err != nil {
		return "", err
	}
	if admin == nil {
		return "", nil
	}
	return admin.RegionLabel(), nil
}

// scopeFor computes the listing scope for a caller. Super admins are
// global; a region query parameter is a voluntary filter for them, not a
// security boundary. Regular admins are always bound to their own region
// regardless of what filter they ask for.
func (s *adminService) scopeFor(ctx context.Context, caller *auth.Claims, regionFilter string) (repository.RegionScope, error) {
	if caller.Role == models.RoleSuperAdmin {
		if strings.TrimSpace(regionFilter) != "" {
			return repository.ScopeRegion(regionFilter), nil
		}
		return repository.ScopeAll(), nil
	}

	region, err := s.resolveRegion(ctx, caller.UserID)
	if err != nil {
		return repository.RegionScope{}, err
	}
	return repository.ScopeRegion(region), nil
}

func (s *adminService) ListProviders(ctx context.Context, caller *auth.Claims, regionFilter string) ([]*models.ProviderListing, error) {
	scope, err := s.scopeFor(ctx, caller, regionFilter)
	if err != nil {
		return nil, err
	}
	return s.providerRepo.ListScoped(ctx, scope)
}

func (s *adminService) ListUsers(ctx context.Context, caller *auth.Claims, regionFilter, roleFilter string) ([]*models.User, error) {
	scope, err := s.scopeFor(ctx, caller, regionFilter)
	if err != nil {
		return nil, err
	}

	roleFilter = strings.TrimSpace(roleFilter)
	var roles []string
	if caller.Role == models.RoleSuperAdmin {
		if roleFilter != "" {
			roles = []string{roleFilter}
		}
	} else {
		// Regional admins only ever see customer and provider accounts.
		switch roleFilter {
		case models.RoleCustomer, models.RoleProvider:
			roles = []string{roleFilter}
		default:
			roles = []string{models.RoleCustomer, models.RoleProvider}
		}
	}

	return s.userRepo.List(ctx, scope, roles)
}

func (s *adminService) ListServiceChangeRequests(ctx context.Context, caller *auth.Claims, regionFilter string) ([]*models.ServiceChangeListing, error) {
	scope, err := s.scopeFor(ctx, caller, regionFilter)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.ListPendingScoped(ctx, scope)
}

// authorizeRegion enforces the regional boundary on mutations: a regular
// admin may only act on providers whose location contains their assigned
// region, and an admin with no region may act on nothing.
func (s *adminService) authorizeRegion(ctx context.Context, caller *auth.Claims, providerLocation string) error {
	if caller.Role == models.RoleSuperAdmin {
		return nil
	}

	region, err := s.resolveRegion(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if !repository.ScopeRegion(region).Contains(providerLocation) {
		return apperrors.OutOfRegion()
	}
	return nil
}

func (s *adminService) SetProviderStatus(ctx context.Context, caller *auth.Claims, providerID, status string) error {
	if !models.IsValidProviderStatus(status) {
		return apperrors.InvalidProviderStatus(status)
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return err
	}
	if provider == nil {
		return apperrors.NotFound("provider")
	}

	if err := s.authorizeRegion(ctx, caller, provider.Location); err != nil {
		return err
	}

	updated, err := s.providerRepo.UpdateStatus(ctx, providerID, status)
	if err != nil {
		return err
	}
	if !updated {
		return apperrors.NotFound("provider")
	}
	return nil
}

func (s *adminService) ResolveServiceChange(ctx context.Context, caller *auth.Claims, requestID, decision string) error {
	if !models.IsValidDecision(decision) {
		return apperrors.InvalidDecision(decision)
	}

	// Both writes of an approval live in one transaction: the provider
	// must never carry the new service type while the request still
	// reads PENDING.
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	request, err := s.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return apperrors.NotFound("service change request")
	}
	if request.Status != models.RequestStatusPending {
		return apperrors.RequestAlreadyResolved(request.Status)
	}

	provider, err := s.providerRepo.GetByIDForUpdate(ctx, tx, request.ProviderID)
	if err != nil {
		return err
	}
	if provider == nil {
		return apperrors.NotFound("provider")
	}

	if err := s.authorizeRegion(ctx, caller, provider.Location); err != nil {
		return err
	}

	now := time.Now()
	if decision == models.RequestStatusApproved {
		_, err = tx.ExecContext(ctx,
			`UPDATE providers SET service_type = $1, updated_at = $2 WHERE id = $3`,
			request.RequestedService, now, provider.ID)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE service_change_requests SET status = $1 WHERE id = $2`,
		decision, request.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *adminService) CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.EmailAlreadyRegistered()
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	region := strings.TrimSpace(req.Region)
	admin := &models.User{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if region != "" {
		admin.Region = &region
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		if repository.IsUniqueViolation(err) {
			return apperrors.EmailAlreadyRegistered()
		}
		return err
	}

	if region != "" {
		if err := s.regionRepo.Upsert(ctx, region); err != nil {
			return err
		}
		if s.regionCache != nil {
			if err := s.regionCache.Invalidate(ctx); err != nil {
				log.Printf("region cache invalidation failed: %v", err)
			}
		}
	}
	return nil
}
