package models

import (
	"database/sql"
	"time"
)

// Reservation statuses.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationSeated    = "seated"
)

// ValidReservationStatus reports whether s is a known reservation status.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationSeated:
		return true
	}
	return false
}

// Reservation is a table booking request made from the public site.
type Reservation struct {
	ID          int            `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Email       string         `db:"email" json:"email"`
	Phone       sql.NullString `db:"phone" json:"phone"`
	PartySize   int            `db:"party_size" json:"partySize"`
	ReservedFor time.Time      `db:"reserved_for" json:"reservedFor"`
	Notes       sql.NullString `db:"notes" json:"notes"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}
