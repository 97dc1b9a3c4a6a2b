package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/models"
)

const userColumns = `id, sub, name, email, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Sub, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CreateUser inserts a user with a bcrypt hash of password.
// Returns ErrDuplicateEmail if the email is taken, ignoring case.
func (d *DB) CreateUser(ctx context.Context, user *models.User, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	err = d.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, COALESCE($4, 'customer'))
		RETURNING id, role, created_at, updated_at
	`, user.Name, user.Email, hash, nullIfEmpty(user.Role)).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.PasswordHash = hash
	return nil
}

// AuthenticateUser checks an email and password pair. Both an unknown email and
// a wrong password return ErrInvalidCredentials.
func (d *DB) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := d.GetUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(d.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(d.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpsertUserBySub creates or updates a user signing in through OIDC. An existing
// password account with the same email is linked to the subject.
func (d *DB) UpsertUserBySub(ctx context.Context, user *models.User) error {
	if user.Sub == nil {
		return errors.New("user has no subject")
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	linked, err := scanUser(tx.QueryRow(ctx, `
		UPDATE users SET sub = $1, name = $2, updated_at = NOW()
		WHERE (sub = $1) OR (sub IS NULL AND LOWER(email) = LOWER($3))
		RETURNING `+userColumns,
		*user.Sub, user.Name, user.Email,
	))
	switch {
	case err == nil:
		*user = *linked
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO users (sub, name, email, role)
			VALUES ($1, $2, $3, COALESCE($4, 'customer'))
			RETURNING id, role, created_at, updated_at
		`, *user.Sub, user.Name, user.Email, nullIfEmpty(user.Role)).Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	default:
		return fmt.Errorf("failed to link user: %w", err)
	}

	return tx.Commit(ctx)
}

// ListUsers returns every user ordered by name.
func (d *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update to a user.
func (d *DB) UpdateUser(ctx context.Context, id uuid.UUID, u models.UserUpdate) (*models.User, error) {
	user, err := scanUser(d.Pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			email = COALESCE($3, email),
			role = COALESCE($4, role),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, u.Name, u.Email, u.Role,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser deletes a user and their cart.
func (d *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
