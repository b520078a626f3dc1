package models

import (
	"encoding/json"
	"time"
)

// ContentEntry is a keyed block of page copy (hero text, opening hours,
// about section, ...). Value is arbitrary JSON so the frontend decides the
// shape; the backend only stores and serves it.
type ContentEntry struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}

// Setting is a single admin-tunable runtime setting (reservations open/closed,
// max party size, notification email, ...).
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
