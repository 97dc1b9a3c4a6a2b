package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/models"
)

const queryColumns = `id, name, email, message, status, resolved_by, resolution_date,
	automated_response, auto_resolved, created_at, updated_at`

func scanQuery(row pgx.Row) (*models.Query, error) {
	var q models.Query
	err := row.Scan(
		&q.ID, &q.Name, &q.Email, &q.Message, &q.Status, &q.ResolvedBy, &q.ResolutionDate,
		&q.AutomatedResponse, &q.AutoResolved, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func collectQueries(rows pgx.Rows) ([]models.Query, error) {
	defer rows.Close()

	queries := []models.Query{}
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, *q)
	}
	return queries, rows.Err()
}

// CreateQuery stores a newly submitted query with status open.
func (d *DB) CreateQuery(ctx context.Context, q *models.Query) error {
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO queries (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING `+queryColumns,
		q.Name, q.Email, q.Message,
	).Scan(
		&q.ID, &q.Name, &q.Email, &q.Message, &q.Status, &q.ResolvedBy, &q.ResolutionDate,
		&q.AutomatedResponse, &q.AutoResolved, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create query: %w", err)
	}
	return nil
}

// GetQueryByID retrieves a query by ID.
func (d *DB) GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	q, err := scanQuery(d.Pool.QueryRow(ctx, `SELECT `+queryColumns+` FROM queries WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQueryNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListQueries returns one page of queries, newest first, and the total count.
func (d *DB) ListQueries(ctx context.Context, limit, offset int) ([]models.Query, int64, error) {
	var total int64
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM queries`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT `+queryColumns+`
		FROM queries
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	queries, err := collectQueries(rows)
	if err != nil {
		return nil, 0, err
	}
	return queries, total, nil
}

// ListPendingQueries returns every query that is not resolved, oldest first.
func (d *DB) ListPendingQueries(ctx context.Context) ([]models.Query, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+queryColumns+`
		FROM queries
		WHERE status <> 'resolved'
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return collectQueries(rows)
}

// ListAllQueries returns every query, oldest first.
func (d *DB) ListAllQueries(ctx context.Context) ([]models.Query, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+queryColumns+` FROM queries ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collectQueries(rows)
}

// UpdateQuery applies a partial update. Nil fields keep their current value.
// Status cannot change here: a resolved query is never reopened, and open
// queries are resolved through ResolveQuery. A status equal to the stored one
// is accepted. Otherwise it returns ErrQueryAlreadyResolved for a resolved
// query, or ErrQueryStatusChange for an open one.
func (d *DB) UpdateQuery(ctx context.Context, id uuid.UUID, u models.QueryUpdate) (*models.Query, error) {
	q, err := scanQuery(d.Pool.QueryRow(ctx, `
		UPDATE queries SET
			resolved_by = COALESCE($3, resolved_by),
			resolution_date = COALESCE($4, resolution_date),
			automated_response = COALESCE($5, automated_response),
			auto_resolved = COALESCE($6, auto_resolved),
			updated_at = NOW()
		WHERE id = $1 AND ($2::text IS NULL OR status = $2::text)
		RETURNING `+queryColumns,
		id, u.Status, u.ResolvedBy, u.ResolutionDate, u.AutomatedResponse, u.AutoResolved,
	))
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update query: %w", err)
	}

	var status string
	err = d.Pool.QueryRow(ctx, `SELECT status FROM queries WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQueryNotFound
	}
	if err != nil {
		return nil, err
	}
	if status == models.QueryStatusResolved {
		return nil, ErrQueryAlreadyResolved
	}
	return nil, ErrQueryStatusChange
}

// ResolveQuery moves an open query to resolved. The status check and the write
// happen in one statement, so two concurrent resolutions cannot both succeed.
// Returns ErrQueryAlreadyResolved if the query was resolved first, or
// ErrQueryNotFound if it no longer exists.
func (d *DB) ResolveQuery(ctx context.Context, id uuid.UUID, res models.QueryResolution) (*models.Query, error) {
	q, err := scanQuery(d.Pool.QueryRow(ctx, `
		UPDATE queries SET
			status = 'resolved',
			resolved_by = $2,
			resolution_date = $3,
			automated_response = $4,
			auto_resolved = $5,
			updated_at = NOW()
		WHERE id = $1 AND status <> 'resolved'
		RETURNING `+queryColumns,
		id, res.ResolvedBy, res.ResolutionDate, res.AutomatedResponse, res.AutoResolved,
	))
	if err == nil {
		return q, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to resolve query: %w", err)
	}

	var exists bool
	if err := d.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM queries WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrQueryAlreadyResolved
	}
	return nil, ErrQueryNotFound
}

// DeleteQuery deletes a query.
func (d *DB) DeleteQuery(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM queries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQueryNotFound
	}
	return nil
}
