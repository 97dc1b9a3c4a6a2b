package db

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
)

// SeedAutomatedResponses inserts responses in order when no response exists yet.
// Returns the number inserted.
func (d *DB) SeedAutomatedResponses(ctx context.Context, responses []models.AutomatedResponse) (int, error) {
	var empty bool
	if err := d.Pool.QueryRow(ctx, `SELECT NOT EXISTS(SELECT 1 FROM automated_responses)`).Scan(&empty); err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}

	for i := range responses {
		if err := d.CreateAutomatedResponse(ctx, &responses[i]); err != nil {
			return i, fmt.Errorf("failed to seed response %d: %w", i, err)
		}
	}
	return len(responses), nil
}

// SeedProducts inserts products when the catalog is empty.
// Returns the number inserted.
func (d *DB) SeedProducts(ctx context.Context, products []models.Product) (int, error) {
	var empty bool
	if err := d.Pool.QueryRow(ctx, `SELECT NOT EXISTS(SELECT 1 FROM products)`).Scan(&empty); err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}

	for i := range products {
		if err := d.CreateProduct(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", products[i].Name, err)
		}
	}
	return len(products), nil
}

// EnsureUser creates user with password unless the email is already registered.
// Returns true if the user was created.
func (d *DB) EnsureUser(ctx context.Context, user *models.User, password string) (bool, error) {
	err := d.CreateUser(ctx, user, password)
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
