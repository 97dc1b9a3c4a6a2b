package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/models"
)

const productColumns = `id, name, description, price::float8, specifications, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Specifications, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns every product ordered by name.
func (d *DB) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProductByID retrieves a product by ID.
func (d *DB) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(d.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct inserts a new product.
func (d *DB) CreateProduct(ctx context.Context, p *models.Product) error {
	p.Specifications = nonNil(p.Specifications)
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price, specifications)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.Price, p.Specifications).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateProduct replaces a product's fields.
func (d *DB) UpdateProduct(ctx context.Context, p *models.Product) error {
	p.Specifications = nonNil(p.Specifications)
	err := d.Pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, specifications = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Price, p.Specifications).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// DeleteProduct deletes a product. Cart lines referencing it are removed too.
func (d *DB) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
