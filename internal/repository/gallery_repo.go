package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// GalleryRepository handles database operations for gallery images.
type GalleryRepository struct {
	db *sqlx.DB
}

// NewGalleryRepository creates a new GalleryRepository.
func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// GetAll returns gallery images in display order.
func (r *GalleryRepository) GetAll(ctx context.Context) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.SelectContext(ctx, &images, `
		SELECT id, title, object_key, url, position, created_at
		FROM gallery_images
		ORDER BY position, id
	`)
	return images, err
}

// GetByID returns a single gallery image, or (nil, nil) if absent.
func (r *GalleryRepository) GetByID(ctx context.Context, id int) (*models.GalleryImage, error) {
	var img models.GalleryImage
	err := r.db.GetContext(ctx, &img, `
		SELECT id, title, object_key, url, position, created_at
		FROM gallery_images WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// Create inserts a gallery image row.
func (r *GalleryRepository) Create(ctx context.Context, img *models.GalleryImage) error {
	query := `
		INSERT INTO gallery_images (title, object_key, url, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, img.Title, img.ObjectKey, img.URL, img.Position).
		Scan(&img.ID, &img.CreatedAt)
}

// Delete removes a gallery image row. Returns false if the row does not exist.
func (r *GalleryRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
