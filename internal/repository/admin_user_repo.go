package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// AdminUserRepository handles database operations for admin users.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

const adminUserColumns = `id, email, password_hash, name, totp_secret, totp_enabled, last_login_at, created_at, updated_at`

// GetByEmail returns the admin user with the given email, or (nil, nil) if
// no such user exists.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the admin user with the given id, or (nil, nil) if absent.
func (r *AdminUserRepository) GetByID(ctx context.Context, id int) (*models.AdminUser, error) {
	var user models.AdminUser
	err := r.db.GetContext(ctx, &user, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new admin user and fills in generated columns.
func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, user.Email, user.PasswordHash, user.Name).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// UpdateLastLogin stamps the user's last successful login.
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET last_login_at = $2, updated_at = NOW() WHERE id = $1
	`, id, at)
	return err
}

// SetTOTPSecret stores a pending two-factor secret. The enabled flag is
// forced to false: any in-progress enrollment is invalidated by a new setup.
func (r *AdminUserRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_secret = $2, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, id, secret)
	return err
}

// EnableTOTP promotes the stored pending secret to active.
func (r *AdminUserRepository) EnableTOTP(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	return err
}

// ClearTOTP removes the secret and disables two-factor entirely.
func (r *AdminUserRepository) ClearTOTP(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, id)
	return err
}
