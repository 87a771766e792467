package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "user_album_likes:album-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "user_album_likes:album-1", []byte("3"), time.Hour))

	got, found, err := cache.Get(ctx, "user_album_likes:album-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "3", string(got))
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache(0)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 0))
	time.Sleep(10 * time.Millisecond)

	_, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, cache.Delete(ctx, "k"))
	require.NoError(t, cache.Delete(ctx, "missing"))

	_, found, _ := cache.Get(ctx, "k")
	assert.False(t, found)
}

func TestMemoryCache_ValuesAreCopied(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	value := []byte("12")
	require.NoError(t, cache.Set(ctx, "k", value, time.Hour))
	value[0] = '9'

	got, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, "12", string(got))

	got[0] = '7'
	again, _, _ := cache.Get(ctx, "k")
	assert.Equal(t, "12", string(again))
}

func TestMemoryCache_CancelledContext(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, cache.Set(ctx, "k", []byte("v"), time.Hour), context.Canceled)
	assert.ErrorIs(t, cache.Delete(ctx, "k"), context.Canceled)
	assert.ErrorIs(t, cache.Ping(ctx), context.Canceled)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cache.Set(ctx, "k", []byte{byte('0' + i%10)}, time.Hour)
			_, _, _ = cache.Get(ctx, "k")
			_ = cache.Delete(ctx, "other")
		}(i)
	}
	wg.Wait()

	_, found, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryCache_Close(t *testing.T) {
	cache := NewMemoryCache(time.Minute)
	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), time.Hour))

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Len())
}
