package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/models"
)

const responseColumns = `id, keywords, response_text, is_default, created_at, updated_at`

func scanResponse(row pgx.Row) (*models.AutomatedResponse, error) {
	var r models.AutomatedResponse
	if err := row.Scan(&r.ID, &r.Keywords, &r.ResponseText, &r.IsDefault, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListAutomatedResponses returns every canned response in insertion order.
// The resolver breaks ties by position, so the order must stay stable.
func (d *DB) ListAutomatedResponses(ctx context.Context) ([]models.AutomatedResponse, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+responseColumns+` FROM automated_responses ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collectResponses(rows)
}

func collectResponses(rows pgx.Rows) ([]models.AutomatedResponse, error) {
	defer rows.Close()

	responses := []models.AutomatedResponse{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *r)
	}
	return responses, rows.Err()
}

// GetAutomatedResponseByID retrieves a canned response by ID.
func (d *DB) GetAutomatedResponseByID(ctx context.Context, id uuid.UUID) (*models.AutomatedResponse, error) {
	r, err := scanResponse(d.Pool.QueryRow(ctx, `SELECT `+responseColumns+` FROM automated_responses WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateAutomatedResponse inserts a canned response. When it is marked as the
// default, the flag is cleared on every other response in the same transaction.
// A concurrent default change that wins the race yields ErrDefaultConflict.
func (d *DB) CreateAutomatedResponse(ctx context.Context, r *models.AutomatedResponse) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if r.IsDefault {
		if err := clearDefault(ctx, tx); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO automated_responses (keywords, response_text, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, nonNil(r.Keywords), r.ResponseText, r.IsDefault).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDefaultConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	r.Keywords = nonNil(r.Keywords)

	return tx.Commit(ctx)
}

// UpdateAutomatedResponse replaces a canned response's fields.
func (d *DB) UpdateAutomatedResponse(ctx context.Context, r *models.AutomatedResponse) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if r.IsDefault {
		if err := clearDefault(ctx, tx); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		UPDATE automated_responses
		SET keywords = $2, response_text = $3, is_default = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, r.ID, nonNil(r.Keywords), r.ResponseText, r.IsDefault).Scan(&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrResponseNotFound
	}
	if isUniqueViolation(err) {
		return ErrDefaultConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update response: %w", err)
	}
	r.Keywords = nonNil(r.Keywords)

	return tx.Commit(ctx)
}

// DeleteAutomatedResponse deletes a canned response.
func (d *DB) DeleteAutomatedResponse(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM automated_responses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrResponseNotFound
	}
	return nil
}

func clearDefault(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		UPDATE automated_responses
		SET is_default = false, updated_at = NOW()
		WHERE is_default = true
	`)
	if err != nil {
		return fmt.Errorf("failed to unset default: %w", err)
	}
	return nil
}
