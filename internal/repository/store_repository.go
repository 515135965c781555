package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
)

// StoreRepository encapsulates store directory reads.
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
}

type storeRepository struct {
	db Querier
}

// NewStoreRepository instantiates repository.
func NewStoreRepository(db Querier) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	const query = `
        SELECT id, name, active, created_at, updated_at
        FROM stores WHERE id=$1`
	var store domain.Store
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&store.ID,
		&store.Name,
		&store.Active,
		&store.CreatedAt,
		&store.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) List(ctx context.Context) ([]domain.Store, error) {
	const query = `
        SELECT id, name, active, created_at, updated_at
        FROM stores ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStores(rows)
}

func scanStores(rows pgx.Rows) ([]domain.Store, error) {
	var result []domain.Store
	for rows.Next() {
		var store domain.Store
		if err := rows.Scan(
			&store.ID,
			&store.Name,
			&store.Active,
			&store.CreatedAt,
			&store.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, store)
	}
	return result, rows.Err()
}
