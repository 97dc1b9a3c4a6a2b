package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level database error sentinels.
var (
	// Query errors
	ErrQueryNotFound        = errors.New("query not found")
	ErrQueryAlreadyResolved = errors.New("query already resolved")
	ErrQueryStatusChange    = errors.New("query status can only change by resolving")

	// Automated response errors
	ErrResponseNotFound = errors.New("response not found")
	ErrDefaultConflict  = errors.New("another default response was set concurrently")

	// Product errors
	ErrProductNotFound = errors.New("product not found")

	// Sales record errors
	ErrSalesRecordNotFound = errors.New("sales record not found")

	// Cart errors
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartEmpty        = errors.New("cart is empty")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Backup errors
	ErrBackupNotFound = errors.New("backup not found")
)

// isUniqueViolation reports whether err is a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
