package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/abenezer/localserve/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProviderRepository interface {
	// Create inserts the provider row inside the caller's transaction so
	// registration can write the user and provider atomically.
	Create(ctx context.Context, tx *sqlx.Tx, provider *models.Provider) error
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Provider, error)
	GetByUserIDForUpdate(ctx context.Context, tx *sqlx.Tx, userID string) (*models.Provider, error)
	GetListingByUserID(ctx context.Context, userID string) (*models.ProviderListing, error)
	GetListingByID(ctx context.Context, id string) (*models.ProviderListing, error)
	// Search returns approved providers matching optional service and
	// location substring filters.
	Search(ctx context.Context, service, location string) ([]*models.ProviderListing, error)
	ListScoped(ctx context.Context, scope RegionScope) ([]*models.ProviderListing, error)
	// UpdateStatus reports whether a row was actually updated, so a
	// missing provider surfaces as not found instead of silent success.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
}

type providerRepository struct {
	db *sqlx.DB
}

func NewProviderRepository(db *sqlx.DB) ProviderRepository {
	return &providerRepository{db: db}
}

const providerListingQuery = `
	SELECT p.*, u.name, u.email
	FROM providers p
	JOIN users u ON p.user_id = u.id
`

func (r *providerRepository) Create(ctx context.Context, tx *sqlx.Tx, provider *models.Provider) error {
	if provider.ID == "" {
		provider.ID = uuid.New().String()
	}
	provider.Status = models.ProviderStatusPending
	provider.Rating = 0
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()

	query := `
		INSERT INTO providers (id, user_id, service_type, location, contact_number,
			description, status, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		provider.ID, provider.UserID, provider.ServiceType, provider.Location,
		provider.ContactNumber, provider.Description, provider.Status, provider.Rating,
		provider.CreatedAt, provider.UpdatedAt)
	return err
}

func (r *providerRepository) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	var provider models.Provider
	query := `SELECT * FROM providers WHERE id = $1`
	err := r.db.GetContext(ctx, &provider, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &provider, err
}

func (r *providerRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Provider, error) {
	var provider models.Provider
	query := `SELECT * FROM providers WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &provider, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &provider, err
}

func (r *providerRepository) GetByUserIDForUpdate(ctx context.Context, tx *sqlx.Tx, userID string) (*models.Provider, error) {
	var provider models.Provider
	query := `SELECT * FROM providers WHERE user_id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &provider, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &provider, err
}

func (r *providerRepository) GetListingByUserID(ctx context.Context, userID string) (*models.ProviderListing, error) {
	var listing models.ProviderListing
	query := providerListingQuery + ` WHERE p.user_id = $1`
	err := r.db.GetContext(ctx, &listing, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &listing, err
}

func (r *providerRepository) GetListingByID(ctx context.Context, id string) (*models.ProviderListing, error) {
	var listing models.ProviderListing
	query := providerListingQuery + ` WHERE p.id = $1`
	err := r.db.GetContext(ctx, &listing, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &listing, err
}

func (r *providerRepository) Search(ctx context.Context, service, location string) ([]*models.ProviderListing, error) {
	listings := []*models.ProviderListing{}
	args := []interface{}{models.ProviderStatusApproved}
	query := providerListingQuery + ` WHERE p.status = $1`

	if service != "" {
		args = append(args, "%"+service+"%")
		query += ` AND p.service_type ILIKE $2`
	}
	if location != "" {
		args = append(args, "%"+location+"%")
		if service != "" {
			query += ` AND p.location ILIKE $3`
		} else {
			query += ` AND p.location ILIKE $2`
		}
	}
	query += ` ORDER BY p.rating DESC, p.created_at DESC`

	err := r.db.SelectContext(ctx, &listings, query, args...)
	return listings, err
}

func (r *providerRepository) ListScoped(ctx context.Context, scope RegionScope) ([]*models.ProviderListing, error) {
	listings := []*models.ProviderListing{}
	if scope.MatchesNothing() {
		return listings, nil
	}

	args := []interface{}{}
	query := providerListingQuery + ` WHERE 1 = 1`
	query += scope.LocationClause("p.location", &args)
	query += ` ORDER BY p.created_at DESC`

	err := r.db.SelectContext(ctx, &listings, query, args...)
	return listings, err
}

func (r *providerRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	query := `UPDATE providers SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
