package models

import (
	"database/sql"
	"time"
)

// MenuItem is a single dish or drink on the public menu.
type MenuItem struct {
	ID          int            `db:"id" json:"id"`
	Category    string         `db:"category" json:"category"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	PriceCents  int            `db:"price_cents" json:"priceCents"`
	ImageURL    sql.NullString `db:"image_url" json:"imageUrl"`
	Position    int            `db:"position" json:"position"`
	IsAvailable bool           `db:"is_available" json:"isAvailable"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}
