package models

import "time"

// GalleryImage is an uploaded photo shown in the public gallery. The original
// lives in the object store under ObjectKey; URL is the public object URL
// (resizing happens at the CDN edge, not here).
type GalleryImage struct {
	ID        int       `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	ObjectKey string    `db:"object_key" json:"-"`
	URL       string    `db:"url" json:"url"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
