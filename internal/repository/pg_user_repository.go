package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancr/backend/internal/model"
)

// PgUserRepository is the PostgreSQL implementation of UserRepository.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository creates a PgUserRepository backed by the given pool.
func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

// Ensure PgUserRepository implements UserRepository at compile time.
var _ UserRepository = (*PgUserRepository)(nil)

// Ping checks database connectivity (DB interface).
func (r *PgUserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const userSelectCols = `id, email, first_name, last_name, COALESCE(phone, ''), active, access_level, created_at, deleted_at`

func scanAccount(scan func(...any) error) (*model.User, error) {
	var u model.User
	if err := scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Active, &u.AccessLevel, &u.CreatedAt, &u.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts the profile row and its credentials row in one transaction.
// Unique violations map to ErrDuplicateEmail / ErrDuplicatePhone.
func (r *PgUserRepository) Create(ctx context.Context, user *model.User, passwordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (id, email, first_name, last_name, phone, active, access_level)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		 RETURNING created_at`,
		user.ID, user.Email, user.FirstName, user.LastName, user.Phone, user.Active, user.AccessLevel,
	).Scan(&user.CreatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_credentials (user_id, password_hash) VALUES ($1, $2)`,
		user.ID, passwordHash,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindByID returns an account by ID, excluding soft-deleted rows.
func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userSelectCols+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanAccount(row.Scan)
}

// FindByEmailWithCredentials joins the profile and credentials rows for login.
func (r *PgUserRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, *model.Credentials, error) {
	var u model.User
	var c model.Credentials
	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''), u.active, u.access_level, u.created_at, u.deleted_at,
		        uc.password_hash, uc.failed_login_count, uc.last_login_at
		 FROM users u
		 JOIN user_credentials uc ON uc.user_id = u.id
		 WHERE u.email = $1 AND u.deleted_at IS NULL`, email,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Active, &u.AccessLevel, &u.CreatedAt, &u.DeletedAt,
		&c.PasswordHash, &c.FailedLoginCount, &c.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	c.UserID = u.ID
	return &u, &c, nil
}

// AccessLevel returns the access level of an active account, for admin checks.
func (r *PgUserRepository) AccessLevel(ctx context.Context, userID string) (string, error) {
	var level string
	err := r.pool.QueryRow(ctx,
		`SELECT access_level FROM users WHERE id = $1 AND active AND deleted_at IS NULL`, userID,
	).Scan(&level)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return level, err
}

// RecordLoginFailure bumps the failed-attempt counter.
func (r *PgUserRepository) RecordLoginFailure(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_credentials
		 SET failed_login_count = failed_login_count + 1
		 WHERE user_id = $1`, userID)
	return err
}

// RecordLoginSuccess stamps last_login_at and resets the failure counter.
func (r *PgUserRepository) RecordLoginSuccess(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_credentials
		 SET last_login_at = now(), failed_login_count = 0
		 WHERE user_id = $1`, userID)
	return err
}

// SetAccessLevel promotes or demotes an account.
func (r *PgUserRepository) SetAccessLevel(ctx context.Context, userID, level string) error {
	if level != model.AccessLevelStandard && level != model.AccessLevelAdmin {
		return fmt.Errorf("unknown access level %q", level)
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET access_level = $2 WHERE id = $1 AND deleted_at IS NULL`, userID, level)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
