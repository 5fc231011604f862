package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type RegionRepository interface {
	// Upsert registers a region name, ignoring duplicates.
	Upsert(ctx context.Context, name string) error
	ListNames(ctx context.Context) ([]string, error)
}

type regionRepository struct {
	db *sqlx.DB
}

func NewRegionRepository(db *sqlx.DB) RegionRepository {
	return &regionRepository{db: db}
}

func (r *regionRepository) Upsert(ctx context.Context, name string) error {
	query := `INSERT INTO regions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, name)
	return err
}

func (r *regionRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	query := `SELECT name FROM regions ORDER BY name ASC`
	err := r.db.SelectContext(ctx, &names, query)
	return names, err
}
