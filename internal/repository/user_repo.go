package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/abenezer/localserve/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAccount(ctx context.Context, id, name, email string) error
	// List returns users inside the scope. A non-empty roles slice
	// restricts results to those roles; admins pass {customer, provider}
	// so they never see other admin accounts.
	List(ctx context.Context, scope RegionScope, roles []string) ([]*models.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	query := `
		INSERT INTO users (id, name, email, password, role, region, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.Password, user.Role, user.Region,
		user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, strings.ToLower(email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) UpdateAccount(ctx context.Context, id, name, email string) error {
	query := `UPDATE users SET name = $1, email = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, name, strings.ToLower(email), time.Now(), id)
	return err
}

func (r *userRepository) List(ctx context.Context, scope RegionScope, roles []string) ([]*models.User, error) {
	users := []*models.User{}
	if scope.MatchesNothing() {
		return users, nil
	}

	args := []interface{}{}
	query := `SELECT * FROM users WHERE 1 = 1`
	query += scope.RegionClause("region", &args)

	if len(roles) > 0 {
		placeholders := make([]string, 0, len(roles))
		for _, role := range roles {
			args = append(args, role)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += fmt.Sprintf(" AND role IN (%s)", strings.Join(placeholders, ", "))
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &users, query, args...)
	return users, err
}
