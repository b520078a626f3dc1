package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// ContentRepository handles database operations for keyed page content.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetAll returns every content entry.
func (r *ContentRepository) GetAll(ctx context.Context) ([]models.ContentEntry, error) {
	var entries []models.ContentEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT key, value, updated_at FROM content_entries ORDER BY key
	`)
	return entries, err
}

// GetByKey returns a single content entry, or (nil, nil) if absent.
func (r *ContentRepository) GetByKey(ctx context.Context, key string) (*models.ContentEntry, error) {
	var entry models.ContentEntry
	err := r.db.GetContext(ctx, &entry, `
		SELECT key, value, updated_at FROM content_entries WHERE key = $1
	`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert writes a content entry, replacing any previous value for the key.
func (r *ContentRepository) Upsert(ctx context.Context, key string, value json.RawMessage) (*models.ContentEntry, error) {
	var entry models.ContentEntry
	err := r.db.GetContext(ctx, &entry, `
		INSERT INTO content_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING key, value, updated_at
	`, key, value)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes a content entry. Returns false if the key does not exist.
func (r *ContentRepository) Delete(ctx context.Context, key string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM content_entries WHERE key = $1`, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
