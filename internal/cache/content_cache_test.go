package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

func newTestContentCache(t *testing.T) (*ContentCache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	return NewContentCache(NewRedisClientFrom(db), 10*time.Minute, 30*time.Minute), mock
}

func testMenuItems() []models.MenuItem {
	return []models.MenuItem{
		{ID: 1, Category: "mains", Name: "Tagliatelle al ragù", PriceCents: 1650, IsAvailable: true},
		{ID: 2, Category: "desserts", Name: "Tiramisù", PriceCents: 750, IsAvailable: true},
	}
}

func TestGetMenuMissFillsAndStores(t *testing.T) {
	cache, mock := newTestContentCache(t)
	items := testMenuItems()
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectGet("menu:public").RedisNil()
	mock.ExpectSet("menu:public", string(payload), 10*time.Minute).SetVal("OK")

	fills := 0
	got, err := cache.GetMenu(context.Background(), func(context.Context) ([]models.MenuItem, error) {
		fills++
		return items, nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, 1, fills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMenuHitSkipsLoader(t *testing.T) {
	cache, mock := newTestContentCache(t)
	items := testMenuItems()
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectGet("menu:public").SetVal(string(payload))

	got, err := cache.GetMenu(context.Background(), func(context.Context) ([]models.MenuItem, error) {
		t.Fatal("loader must not be called on a cache hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMenuFallsThroughOnRedisFault(t *testing.T) {
	cache, mock := newTestContentCache(t)
	items := testMenuItems()
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectGet("menu:public").SetErr(errors.New("connection refused"))
	mock.ExpectSet("menu:public", string(payload), 10*time.Minute).SetErr(errors.New("connection refused"))

	got, err := cache.GetMenu(context.Background(), func(context.Context) ([]models.MenuItem, error) {
		return items, nil
	})
	require.NoError(t, err, "a redis fault must not surface to the caller")
	assert.Equal(t, items, got)
}

func TestGetMenuDropsUndecodableEntry(t *testing.T) {
	cache, mock := newTestContentCache(t)
	items := testMenuItems()
	payload, err := json.Marshal(items)
	require.NoError(t, err)

	mock.ExpectGet("menu:public").SetVal("{corrupt")
	mock.ExpectDel("menu:public").SetVal(1)
	mock.ExpectSet("menu:public", string(payload), 10*time.Minute).SetVal("OK")

	got, err := cache.GetMenu(context.Background(), func(context.Context) ([]models.MenuItem, error) {
		return items, nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMenuLoaderErrorPropagates(t *testing.T) {
	cache, mock := newTestContentCache(t)

	mock.ExpectGet("menu:public").RedisNil()

	_, err := cache.GetMenu(context.Background(), func(context.Context) ([]models.MenuItem, error) {
		return nil, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContentByKey(t *testing.T) {
	cache, mock := newTestContentCache(t)
	entry := &models.ContentEntry{Key: "hero", Value: json.RawMessage(`{"title":"Benvenuti"}`)}
	payload, err := json.Marshal(entry)
	require.NoError(t, err)

	mock.ExpectGet("content:key:hero").RedisNil()
	mock.ExpectSet("content:key:hero", string(payload), 30*time.Minute).SetVal("OK")

	got, err := cache.GetContentByKey(context.Background(), "hero", func(_ context.Context, key string) (*models.ContentEntry, error) {
		assert.Equal(t, "hero", key)
		return entry, nil
	})
	require.NoError(t, err)
	assert.Equal(t, entry, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContentByKeyAbsenceNotCached(t *testing.T) {
	cache, mock := newTestContentCache(t)

	mock.ExpectGet("content:key:missing").RedisNil()

	got, err := cache.GetContentByKey(context.Background(), "missing", func(context.Context, string) (*models.ContentEntry, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet(), "absence must not be written back")
}

func TestGetContentAll(t *testing.T) {
	cache, mock := newTestContentCache(t)
	entries := []models.ContentEntry{
		{Key: "hero", Value: json.RawMessage(`{"title":"Benvenuti"}`)},
		{Key: "hours", Value: json.RawMessage(`{"mon":"closed"}`)},
	}
	payload, err := json.Marshal(entries)
	require.NoError(t, err)

	mock.ExpectGet("content:all").RedisNil()
	mock.ExpectSet("content:all", string(payload), 30*time.Minute).SetVal("OK")

	got, err := cache.GetContentAll(context.Background(), func(context.Context) ([]models.ContentEntry, error) {
		return entries, nil
	})
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateMenu(t *testing.T) {
	cache, mock := newTestContentCache(t)

	mock.ExpectDel("menu:public").SetVal(1)
	cache.InvalidateMenu(context.Background())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidateContent(t *testing.T) {
	cache, mock := newTestContentCache(t)

	mock.ExpectDel("content:all", "content:key:hero").SetVal(2)
	cache.InvalidateContent(context.Background(), "hero")
	assert.NoError(t, mock.ExpectationsWereMet())
}
