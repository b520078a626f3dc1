package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// MenuRepository handles database operations for menu items.
type MenuRepository struct {
	db *sqlx.DB
}

// NewMenuRepository creates a new MenuRepository.
func NewMenuRepository(db *sqlx.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

const menuColumns = `id, category, name, description, price_cents, image_url, position, is_available, created_at, updated_at`

// GetAll returns every menu item ordered by category and position.
func (r *MenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+menuColumns+`
		FROM menu_items
		ORDER BY category, position, id
	`)
	return items, err
}

// GetAvailable returns only items shown on the public menu.
func (r *MenuRepository) GetAvailable(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE is_available = TRUE
		ORDER BY category, position, id
	`)
	return items, err
}

// GetByID returns a single menu item, or (nil, nil) if absent.
func (r *MenuRepository) GetByID(ctx context.Context, id int) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.GetContext(ctx, &item, `
		SELECT `+menuColumns+` FROM menu_items WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a menu item and fills in generated columns.
func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (category, name, description, price_cents, image_url, position, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		item.Category, item.Name, item.Description, item.PriceCents, item.ImageURL, item.Position, item.IsAvailable).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// Update rewrites all mutable columns of a menu item. Returns false if the
// row does not exist.
func (r *MenuRepository) Update(ctx context.Context, item *models.MenuItem) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE menu_items
		SET category = $2, name = $3, description = $4, price_cents = $5,
		    image_url = $6, position = $7, is_available = $8, updated_at = NOW()
		WHERE id = $1
	`, item.ID, item.Category, item.Name, item.Description, item.PriceCents,
		item.ImageURL, item.Position, item.IsAvailable)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes a menu item. Returns false if the row does not exist.
func (r *MenuRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
