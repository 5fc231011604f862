package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/abenezer/localserve/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ServiceChangeRequestRepository interface {
	// Create inserts a PENDING request inside the caller's transaction.
	// The partial unique index on (provider_id) WHERE status = 'PENDING'
	// makes a concurrent duplicate fail with a unique violation.
	Create(ctx context.Context, tx *sqlx.Tx, request *models.ServiceChangeRequest) error
	HasPending(ctx context.Context, tx *sqlx.Tx, providerID string) (bool, error)
	GetPendingByProviderID(ctx context.Context, providerID string) (*models.ServiceChangeRequest, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.ServiceChangeRequest, error)
	ListPendingScoped(ctx context.Context, scope RegionScope) ([]*models.ServiceChangeListing, error)
}

type serviceChangeRequestRepository struct {
	db *sqlx.DB
}

func NewServiceChangeRequestRepository(db *sqlx.DB) ServiceChangeRequestRepository {
	return &serviceChangeRequestRepository{db: db}
}

func (r *serviceChangeRequestRepository) Create(ctx context.Context, tx *sqlx.Tx, request *models.ServiceChangeRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.Status = models.RequestStatusPending
	request.CreatedAt = time.Now()

	query := `
		INSERT INTO service_change_requests (id, provider_id, old_service, requested_service, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		request.ID, request.ProviderID, request.OldService, request.RequestedService,
		request.Status, request.CreatedAt)
	return err
}

func (r *serviceChangeRequestRepository) HasPending(ctx context.Context, tx *sqlx.Tx, providerID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM service_change_requests WHERE provider_id = $1 AND status = $2)`
	err := tx.GetContext(ctx, &exists, query, providerID, models.RequestStatusPending)
	return exists, err
}

func (r *serviceChangeRequestRepository) GetPendingByProviderID(ctx context.Context, providerID string) (*models.ServiceChangeRequest, error) {
	var request models.ServiceChangeRequest
	query := `SELECT * FROM service_change_requests WHERE provider_id = $1 AND status = $2`
	err := r.db.GetContext(ctx, &request, query, providerID, models.RequestStatusPending)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *serviceChangeRequestRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.ServiceChangeRequest, error) {
	var request models.ServiceChangeRequest
	query := `SELECT * FROM service_change_requests WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &request, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &request, err
}

func (r *serviceChangeRequestRepository) ListPendingScoped(ctx context.Context, scope RegionScope) ([]*models.ServiceChangeListing, error) {
	listings := []*models.ServiceChangeListing{}
	if scope.MatchesNothing() {
		return listings, nil
	}

	args := []interface{}{models.RequestStatusPending}
	query := `
		SELECT r.*, u.name AS provider_name, p.location
		FROM service_change_requests r
		JOIN providers p ON r.provider_id = p.id
		JOIN users u ON p.user_id = u.id
		WHERE r.status = $1`
	query += scope.LocationClause("p.location", &args)
	query += ` ORDER BY r.created_at ASC`

	err := r.db.SelectContext(ctx, &listings, query, args...)
	return listings, err
}
