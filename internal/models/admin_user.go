package models

import (
	"database/sql"
	"time"
)

// AdminUser represents an admin user for the management panel.
//
// TOTPSecret is NULL until two-factor setup begins. The secret is stored with
// TOTPEnabled=false while the enrollment is pending; only after the user
// proves possession of the authenticator does TOTPEnabled flip to true.
// TOTPSecret is never NULL while TOTPEnabled is true.
type AdminUser struct {
	ID           int            `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	TOTPSecret   sql.NullString `db:"totp_secret" json:"-"`
	TOTPEnabled  bool           `db:"totp_enabled" json:"totpEnabled"`
	LastLoginAt  sql.NullTime   `db:"last_login_at" json:"lastLoginAt"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}
