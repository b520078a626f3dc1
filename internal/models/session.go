package models

import "time"

// Session is a stored login session row. It covers both fully authenticated
// sessions and short-lived pending-2FA placeholders; the two are told apart
// by the token prefix, not by a separate table.
//
// Expiry is enforced at read time: lookups exclude rows with
// expires_at <= now, so an expired row that has not been swept yet is inert.
type Session struct {
	ID        int       `db:"id" json:"-"`
	UserID    int       `db:"user_id" json:"-"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
