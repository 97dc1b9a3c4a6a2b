package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/models"
)

// CreateBackup snapshots every query and automated response into the backups
// table. Both sets are read in one repeatable-read transaction so the snapshot
// is consistent.
func (d *DB) CreateBackup(ctx context.Context) (*models.Backup, error) {
	tx, err := d.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT `+queryColumns+` FROM queries ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	queries, err := collectQueries(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read queries: %w", err)
	}

	rows, err = tx.Query(ctx, `SELECT `+responseColumns+` FROM automated_responses ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	responses, err := collectResponses(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}

	backup := &models.Backup{Queries: queries, Responses: responses}
	err = tx.QueryRow(ctx, `
		INSERT INTO backups (queries, responses)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, backup.Queries, backup.Responses).Scan(&backup.ID, &backup.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save backup: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return backup, nil
}

// SetBackupObjectURI records where a backup was uploaded.
func (d *DB) SetBackupObjectURI(ctx context.Context, id uuid.UUID, uri string) error {
	tag, err := d.Pool.Exec(ctx, `UPDATE backups SET object_uri = $2 WHERE id = $1`, id, uri)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBackupNotFound
	}
	return nil
}

// ListBackups returns a summary of every backup, newest first.
func (d *DB) ListBackups(ctx context.Context) ([]models.BackupSummary, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, jsonb_array_length(queries), jsonb_array_length(responses), object_uri, created_at
		FROM backups
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	backups := []models.BackupSummary{}
	for rows.Next() {
		var b models.BackupSummary
		if err := rows.Scan(&b.ID, &b.QueryCount, &b.ResponseCount, &b.ObjectURI, &b.CreatedAt); err != nil {
			return nil, err
		}
		backups = append(backups, b)
	}
	return backups, rows.Err()
}

// GetBackupByID retrieves a backup with its full payload.
func (d *DB) GetBackupByID(ctx context.Context, id uuid.UUID) (*models.Backup, error) {
	var b models.Backup
	err := d.Pool.QueryRow(ctx, `
		SELECT id, queries, responses, object_uri, created_at FROM backups WHERE id = $1
	`, id).Scan(&b.ID, &b.Queries, &b.Responses, &b.ObjectURI, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBackupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// RestoreBackup replaces every query and automated response with the contents
// of a backup. Identifiers and timestamps are preserved, and responses keep
// their snapshot order.
func (d *DB) RestoreBackup(ctx context.Context, id uuid.UUID) (*models.Backup, error) {
	backup, err := d.GetBackupByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM queries`); err != nil {
		return nil, fmt.Errorf("failed to clear queries: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM automated_responses`); err != nil {
		return nil, fmt.Errorf("failed to clear responses: %w", err)
	}

	for _, q := range backup.Queries {
		status := q.Status
		if status == "" {
			status = models.QueryStatusOpen
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO queries (id, name, email, message, status, resolved_by, resolution_date,
				automated_response, auto_resolved, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, q.ID, q.Name, q.Email, q.Message, status, q.ResolvedBy, q.ResolutionDate,
			q.AutomatedResponse, q.AutoResolved, q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to restore query %s: %w", q.ID, err)
		}
	}

	seenDefault := false
	for _, r := range backup.Responses {
		// Older snapshots may hold more than one default; the first one wins.
		isDefault := r.IsDefault && !seenDefault
		seenDefault = seenDefault || isDefault
		_, err := tx.Exec(ctx, `
			INSERT INTO automated_responses (id, keywords, response_text, is_default, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, r.ID, nonNil(r.Keywords), r.ResponseText, isDefault, r.CreatedAt, r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to restore response %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return backup, nil
}
