package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/models"
)

const salesColumns = `id, date, items, price::float8, customer, created_at, updated_at`

func scanSalesRecord(row pgx.Row) (*models.SalesRecord, error) {
	var s models.SalesRecord
	if err := row.Scan(&s.ID, &s.Date, &s.Items, &s.Price, &s.Customer, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSalesRecords returns every sales record, newest first.
func (d *DB) ListSalesRecords(ctx context.Context) ([]models.SalesRecord, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+salesColumns+` FROM sales_records ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.SalesRecord{}
	for rows.Next() {
		s, err := scanSalesRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *s)
	}
	return records, rows.Err()
}

// CreateSalesRecord inserts a sales record.
func (d *DB) CreateSalesRecord(ctx context.Context, s *models.SalesRecord) error {
	return insertSalesRecord(ctx, d.Pool, s)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertSalesRecord(ctx context.Context, q queryRower, s *models.SalesRecord) error {
	s.Items = nonNil(s.Items)
	err := q.QueryRow(ctx, `
		INSERT INTO sales_records (date, items, price, customer)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, s.Date, s.Items, s.Price, s.Customer).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sales record: %w", err)
	}
	return nil
}

// UpdateSalesRecord replaces a sales record's fields.
func (d *DB) UpdateSalesRecord(ctx context.Context, s *models.SalesRecord) error {
	s.Items = nonNil(s.Items)
	err := d.Pool.QueryRow(ctx, `
		UPDATE sales_records
		SET date = $2, items = $3, price = $4, customer = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, s.ID, s.Date, s.Items, s.Price, s.Customer).Scan(&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSalesRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update sales record: %w", err)
	}
	return nil
}

// DeleteSalesRecord deletes a sales record.
func (d *DB) DeleteSalesRecord(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM sales_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSalesRecordNotFound
	}
	return nil
}
