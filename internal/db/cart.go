package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/models"
)

const cartColumns = `id, user_id, product_id, quantity, created_at, updated_at`

func scanCartItem(row pgx.Row) (*models.CartItem, error) {
	var c models.CartItem
	if err := row.Scan(&c.ID, &c.UserID, &c.ProductID, &c.Quantity, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// AddCartItem adds a product to a user's cart. If the product is already in the
// cart, the quantity is added to the existing line. Returns true when a new line
// was created.
func (d *DB) AddCartItem(ctx context.Context, item *models.CartItem) (bool, error) {
	var created bool
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING `+cartColumns+`, (xmax = 0)
	`, item.UserID, item.ProductID, item.Quantity).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt, &created,
	)
	if isForeignKeyViolation(err) {
		return false, ErrProductNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to add cart item: %w", err)
	}
	return created, nil
}

// ListCartItems returns a user's cart in the order items were added.
func (d *DB) ListCartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		c, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// GetCartItemByID retrieves a cart line by ID.
func (d *DB) GetCartItemByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	c, err := scanCartItem(d.Pool.QueryRow(ctx, `SELECT `+cartColumns+` FROM cart_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCartItemQuantity sets the quantity of a cart line.
func (d *DB) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartItem, error) {
	c, err := scanCartItem(d.Pool.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+cartColumns,
		id, quantity,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return c, nil
}

// DeleteCartItem removes a cart line.
func (d *DB) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// SyncCart replaces a user's cart with items. Lines for the same product are
// merged.
func (d *DB) SyncCart(ctx context.Context, userID uuid.UUID, items []models.CartItem) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	for _, item := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_items (user_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, product_id) DO UPDATE
			SET quantity = cart_items.quantity + EXCLUDED.quantity
		`, userID, item.ProductID, item.Quantity)
		if isForeignKeyViolation(err) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Checkout turns a user's cart into a sales record and empties the cart. Lines
// whose product no longer exists are dropped. Returns ErrCartEmpty when there
// is nothing to buy.
func (d *DB) Checkout(ctx context.Context, userID uuid.UUID, customer string, at time.Time) (*models.CheckoutResult, error) {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT p.name, p.price::float8, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
		FOR UPDATE OF c
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	record := &models.SalesRecord{
		Date:     at.UTC().Format(time.RFC3339),
		Items:    []string{},
		Customer: customer,
	}
	count := 0
	for rows.Next() {
		var name string
		var price float64
		var quantity int
		if err := rows.Scan(&name, &price, &quantity); err != nil {
			rows.Close()
			return nil, err
		}
		record.Price += price * float64(quantity)
		record.Items = append(record.Items, fmt.Sprintf("%s(Quantity:%d)", name, quantity))
		count++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, ErrCartEmpty
	}

	if err := insertSalesRecord(ctx, tx, record); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to empty cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &models.CheckoutResult{SalesRecord: record, ItemCount: count}, nil
}
