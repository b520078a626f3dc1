package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// SettingsRepository handles database operations for runtime settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAll returns every setting.
func (r *SettingsRepository) GetAll(ctx context.Context) ([]models.Setting, error) {
	var settings []models.Setting
	err := r.db.SelectContext(ctx, &settings, `
		SELECT key, value, updated_at FROM settings ORDER BY key
	`)
	return settings, err
}

// Get returns a single setting, or (nil, nil) if absent.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.GetContext(ctx, &s, `
		SELECT key, value, updated_at FROM settings WHERE key = $1
	`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Set writes a setting, replacing any previous value for the key.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) (*models.Setting, error) {
	var s models.Setting
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING key, value, updated_at
	`, key, value)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
