package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// Duplicate-key errors surfaced from unique constraints.
var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicatePhone = errors.New("phone number already exists")
	ErrDuplicate      = errors.New("record already exists")
)

// mapUniqueViolation translates a pgx unique-violation error into one of the
// duplicate sentinels, keyed on the violated constraint's name. Other errors
// pass through unchanged.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	name := strings.ToLower(pgErr.ConstraintName)
	switch {
	case strings.Contains(name, "email"):
		return ErrDuplicateEmail
	case strings.Contains(name, "phone"):
		return ErrDuplicatePhone
	default:
		return ErrDuplicate
	}
}
