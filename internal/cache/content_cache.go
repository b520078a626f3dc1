package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// ContentCache is a read-through cache in front of the public menu and page
// content. A miss (or any redis fault) falls through to the loader and the
// result is written back with the configured TTL; writes to the underlying
// rows invalidate the affected keys.
type ContentCache struct {
	redis      *RedisClient
	menuTTL    time.Duration
	contentTTL time.Duration
}

// NewContentCache creates a new ContentCache.
func NewContentCache(redis *RedisClient, menuTTL, contentTTL time.Duration) *ContentCache {
	return &ContentCache{
		redis:      redis,
		menuTTL:    menuTTL,
		contentTTL: contentTTL,
	}
}

const (
	keyMenuPublic = "menu:public"
	keyContentAll = "content:all"
)

// keyContentEntry returns the cache key for a single content entry.
func keyContentEntry(key string) string {
	return fmt.Sprintf("content:key:%s", key)
}

// GetMenu returns the public menu, loading it through fill on a miss.
func (c *ContentCache) GetMenu(ctx context.Context, fill func(context.Context) ([]models.MenuItem, error)) ([]models.MenuItem, error) {
	if raw, err := c.redis.Get(ctx, keyMenuPublic); err == nil {
		var items []models.MenuItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return items, nil
		}
		log.Warn().Str("key", keyMenuPublic).Msg("Dropping undecodable cache entry")
		_ = c.redis.Delete(ctx, keyMenuPublic)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", keyMenuPublic).Msg("Cache read failed, falling through")
	}

	items, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyMenuPublic, items, c.menuTTL)
	return items, nil
}

// InvalidateMenu drops the cached public menu.
func (c *ContentCache) InvalidateMenu(ctx context.Context) {
	if err := c.redis.Delete(ctx, keyMenuPublic); err != nil {
		log.Warn().Err(err).Str("key", keyMenuPublic).Msg("Cache invalidation failed")
	}
}

// GetContentAll returns every content entry, loading through fill on a miss.
func (c *ContentCache) GetContentAll(ctx context.Context, fill func(context.Context) ([]models.ContentEntry, error)) ([]models.ContentEntry, error) {
	if raw, err := c.redis.Get(ctx, keyContentAll); err == nil {
		var entries []models.ContentEntry
		if err := json.Unmarshal([]byte(raw), &entries); err == nil {
			return entries, nil
		}
		log.Warn().Str("key", keyContentAll).Msg("Dropping undecodable cache entry")
		_ = c.redis.Delete(ctx, keyContentAll)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", keyContentAll).Msg("Cache read failed, falling through")
	}

	entries, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, keyContentAll, entries, c.contentTTL)
	return entries, nil
}

// GetContentByKey returns one content entry, loading through fill on a miss.
// fill returning (nil, nil) means the key does not exist; absence is not
// cached.
func (c *ContentCache) GetContentByKey(ctx context.Context, key string, fill func(context.Context, string) (*models.ContentEntry, error)) (*models.ContentEntry, error) {
	cacheKey := keyContentEntry(key)
	if raw, err := c.redis.Get(ctx, cacheKey); err == nil {
		var entry models.ContentEntry
		if err := json.Unmarshal([]byte(raw), &entry); err == nil {
			return &entry, nil
		}
		log.Warn().Str("key", cacheKey).Msg("Dropping undecodable cache entry")
		_ = c.redis.Delete(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", cacheKey).Msg("Cache read failed, falling through")
	}

	entry, err := fill(ctx, key)
	if err != nil || entry == nil {
		return entry, err
	}
	c.store(ctx, cacheKey, entry, c.contentTTL)
	return entry, nil
}

// InvalidateContent drops the aggregate content key and the per-entry key.
func (c *ContentCache) InvalidateContent(ctx context.Context, key string) {
	if err := c.redis.Delete(ctx, keyContentAll, keyContentEntry(key)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache invalidation failed")
	}
}

// store writes a JSON payload back to the cache. Failures are logged, not
// returned: the caller already has the data.
func (c *ContentCache) store(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache payload marshal failed")
		return
	}
	if err := c.redis.Set(ctx, key, string(payload), ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
