package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// SessionRepository handles database operations for login sessions, both
// full sessions and pending-2FA placeholders.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session row.
func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO admin_sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, s.UserID, s.Token, s.ExpiresAt).
		Scan(&s.ID, &s.CreatedAt)
}

// GetActive returns the session for token if it has not expired, or
// (nil, nil) otherwise. A row whose expiry equals now is already expired.
func (r *SessionRepository) GetActive(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	var s models.Session
	err := r.db.GetContext(ctx, &s, `
		SELECT id, user_id, token, expires_at, created_at
		FROM admin_sessions
		WHERE token = $1 AND expires_at > $2
	`, token, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete removes the session row for token. Deleting an absent token is a
// no-op, not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE token = $1`, token)
	return err
}

// DeleteExpired sweeps rows past their expiry and returns how many were
// removed. Reads already exclude expired rows, so this is maintenance only.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
