package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// ReservationRepository handles database operations for reservations.
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository creates a new ReservationRepository.
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, name, email, phone, party_size, reserved_for, notes, status, created_at, updated_at`

// Create inserts a reservation and fills in generated columns.
func (r *ReservationRepository) Create(ctx context.Context, rsv *models.Reservation) error {
	query := `
		INSERT INTO reservations (name, email, phone, party_size, reserved_for, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		rsv.Name, rsv.Email, rsv.Phone, rsv.PartySize, rsv.ReservedFor, rsv.Notes, rsv.Status).
		Scan(&rsv.ID, &rsv.CreatedAt, &rsv.UpdatedAt)
}

// GetByID returns a single reservation, or (nil, nil) if absent.
func (r *ReservationRepository) GetByID(ctx context.Context, id int) (*models.Reservation, error) {
	var rsv models.Reservation
	err := r.db.GetContext(ctx, &rsv, `
		SELECT `+reservationColumns+` FROM reservations WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsv, nil
}

// List returns reservations filtered by optional status and day, newest
// booking slot first.
func (r *ReservationRepository) List(ctx context.Context, status string, day *time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		args = append(args, status)
		query += ` AND status = $1`
	}
	if day != nil {
		args = append(args, *day)
		if status != "" {
			query += ` AND reserved_for >= $2 AND reserved_for < $2 + INTERVAL '1 day'`
		} else {
			query += ` AND reserved_for >= $1 AND reserved_for < $1 + INTERVAL '1 day'`
		}
	}
	query += ` ORDER BY reserved_for DESC, id DESC`

	var out []models.Reservation
	err := r.db.SelectContext(ctx, &out, query, args...)
	return out, err
}

// UpdateStatus moves a reservation to a new status. Returns false if the row
// does not exist.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a reservation. Returns false if the row does not exist.
func (r *ReservationRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
