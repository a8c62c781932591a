package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imobsites/platform/internal/config"
	"github.com/imobsites/platform/internal/models"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := models.Tenant{ID: 7, Name: "Imob Silva", Slug: "imob-silva", Status: models.TenantStatusActive}
	err := cache.Set(TenantKey("imoveissilva.com.br"), expected, time.Minute)
	require.NoError(t, err)

	var actual models.Tenant
	found, err := cache.Get(TenantKey("imoveissilva.com.br"), &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Slug, actual.Slug)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out models.Tenant
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	err := cache.Set(PlansKey, []string{"annual"}, time.Minute)
	require.NoError(t, err)

	err = cache.Invalidate(PlansKey)
	require.NoError(t, err)

	var out []string
	found, err := cache.Get(PlansKey, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache := setupTestCache(t)

	err := cache.Db.Set(context.Background(), "bad", []byte("not-json"), time.Minute).Err()
	require.NoError(t, err)

	var out models.Tenant
	found, err := cache.Get("bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:9999",
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
