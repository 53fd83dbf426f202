package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrProductNotFound = errors.New("product not found")

// Repository is the read side of the externally-owned product catalog.
// The core never writes products.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	query := `SELECT id, type, name, description, price_cents, content_url, image_url, preview_duration_seconds, group_link, created_at, updated_at
              FROM products WHERE id = $1`
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product by id %s: %w", id, err)
	}

	plansQuery := `SELECT id, product_id, name, price_cents FROM product_plans WHERE product_id = $1 ORDER BY price_cents`
	if err := r.db.SelectContext(ctx, &p.Plans, plansQuery, id); err != nil {
		return nil, fmt.Errorf("repository: failed to select plans for product %s: %w", id, err)
	}

	return &p, nil
}
