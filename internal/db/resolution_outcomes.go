package db

import (
	"context"

	"storefront/internal/models"
)

// IncrementResolutionOutcome upserts the count of automated resolutions for source.
func (d *DB) IncrementResolutionOutcome(ctx context.Context, source string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO resolution_outcomes (source, count, last_seen_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (source) DO UPDATE
		SET count = resolution_outcomes.count + 1, last_seen_at = NOW()
	`, source)
	return err
}

// GetAllResolutionOutcomes returns every outcome row for metrics export.
func (d *DB) GetAllResolutionOutcomes(ctx context.Context) ([]models.ResolutionOutcome, error) {
	rows, err := d.Pool.Query(ctx, `SELECT source, count, last_seen_at FROM resolution_outcomes ORDER BY source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outcomes []models.ResolutionOutcome
	for rows.Next() {
		var o models.ResolutionOutcome
		if err := rows.Scan(&o.Source, &o.Count, &o.LastSeenAt); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
