package service

import (
	"context"
	"log"
	"strings"

	"github.com/abenezer/localserve/internal/auth"
	"github.com/abenezer/localserve/internal/cache"
	apperrors "github.com/abenezer/localserve/internal/errors"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	UpdateAccount(ctx context.Context, userID string, req *models.UpdateAccountRequest) error
	ListRegions(ctx context.Context) ([]string, error)
}

type authService struct {
	db          *sqlx.DB
	userRepo    repository.UserRepository
	regionRepo  repository.RegionRepository
	regionCache cache.RegionCache
	jwtSecret   string
	jwtExpires  int
}

func NewAuthService(
	db *sqlx.DB,
	userRepo repository.UserRepository,
	regionRepo repository.RegionRepository,
	regionCache cache.RegionCache,
	jwtSecret string,
	jwtExpires int,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		regionRepo:  regionRepo,
		regionCache: regionCache,
		jwtSecret:   jwtSecret,
		jwtExpires:  jwtExpires,
	}
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.EmailAlreadyRegistered()
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		Role:     role,
	}
	if region := strings.TrimSpace(req.Region); region != "" {
		user.Region = &region
	}

	// Providers get their profile row in the same transaction as the
	// account, so a failed profile insert never leaves a dangling user.
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, role, region, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		user.ID, user.Name, user.Email, user.Password, user.Role, user.Region)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.EmailAlreadyRegistered()
		}
		return nil, err
	}

	if role == models.RoleProvider {
		location := strings.TrimSpace(req.Location)
		if location == "" {
			// New providers default to serving their home region.
			location = strings.TrimSpace(req.Region)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO providers (id, user_id, service_type, location, contact_number,
				description, status, rating, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 0, now(), now())`,
			uuid.New().String(), user.ID, req.ServiceType, location,
			req.ContactNumber, req.Description, models.ProviderStatusPending)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.InvalidCredentials()
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.InvalidCredentials()
	}

	token, err := auth.SignToken(s.jwtSecret, user.ID, user.Role, s.jwtExpires)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) UpdateAccount(ctx context.Context, userID string, req *models.UpdateAccountRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		taken, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken != nil {
			return apperrors.EmailAlreadyRegistered()
		}
	}

	return s.userRepo.UpdateAccount(ctx, userID, strings.TrimSpace(req.Name), email)
}

func (s *authService) ListRegions(ctx context.Context) ([]string, error) {
	if s.regionCache != nil {
		names, err := s.regionCache.GetNames(ctx)
		if err != nil {
			log.Printf("region cache read failed: %v", err)
		} else if names != nil {
			return names, nil
		}
	}

	names, err := s.regionRepo.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	if s.regionCache != nil {
		if err := s.regionCache.SetNames(ctx, names); err != nil {
			log.Printf("region cache write failed: %v", err)
		}
	}
	return names, nil
}
