package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"openmusic-api/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration tests run only when REDIS_TEST_ADDR points at a disposable instance.
func newTestCache(t *testing.T) *RedisCache {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("Skipping Redis integration tests - set REDIS_TEST_ADDR to run")
	}

	cache, err := NewRedisCache(context.Background(), config.RedisConfig{Address: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func testKey() string {
	return "user_album_likes:album-test-" + uuid.NewString()
}

func TestNewRedisCache_InvalidAddress(t *testing.T) {
	cache, err := NewRedisCache(context.Background(), config.RedisConfig{})

	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cache, err := NewRedisCache(ctx, config.RedisConfig{Address: "127.0.0.1:1"})

	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	key := testKey()

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, key, []byte("7"), time.Minute))

	val, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "7", string(val))

	ttl, err := cache.client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, cache.Delete(ctx, key))
	require.NoError(t, cache.Delete(ctx, key), "deleting an absent key succeeds")

	_, found, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Expiry(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, cache.Set(ctx, key, []byte("1"), 100*time.Millisecond))
	time.Sleep(250 * time.Millisecond)

	_, found, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Ping(t *testing.T) {
	cache := newTestCache(t)
	assert.NoError(t, cache.Ping(context.Background()))
}
