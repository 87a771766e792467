package likes

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"
)

// fakeStore is an in-memory LikeStore with hooks for interleaving tests
type fakeStore struct {
	mu     sync.Mutex
	albums map[string]bool
	likes  map[string]domain.LikeRecord // albumID|userID -> record

	countCalls atomic.Int64

	// countHook runs after the count snapshot is taken and before it is returned
	countHook func()
	countErr  error
}

func newFakeStore(albumIDs ...string) *fakeStore {
	s := &fakeStore{
		albums: make(map[string]bool),
		likes:  make(map[string]domain.LikeRecord),
	}
	for _, id := range albumIDs {
		s.albums[id] = true
	}
	return s
}

func likeKey(albumID, userID string) string { return albumID + "|" + userID }

func (s *fakeStore) AlbumExists(ctx context.Context, albumID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.albums[albumID], nil
}

func (s *fakeStore) CountLikes(ctx context.Context, albumID string) (int, error) {
	s.countCalls.Add(1)
	if s.countErr != nil {
		return 0, s.countErr
	}

	s.mu.Lock()
	n := 0
	for _, rec := range s.likes {
		if rec.AlbumID == albumID {
			n++
		}
	}
	s.mu.Unlock()

	if s.countHook != nil {
		s.countHook()
	}
	return n, nil
}

func (s *fakeStore) HasLike(ctx context.Context, albumID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[likeKey(albumID, userID)]
	return ok, nil
}

func (s *fakeStore) InsertLike(ctx context.Context, like domain.LikeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := likeKey(like.AlbumID, like.UserID)
	if _, ok := s.likes[k]; ok {
		return &apperrors.ConflictError{Resource: "like", Message: "duplicate like"}
	}
	s.likes[k] = like
	return nil
}

func (s *fakeStore) DeleteLike(ctx context.Context, albumID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := likeKey(albumID, userID)
	_, ok := s.likes[k]
	delete(s.likes, k)
	return ok, nil
}

// fakeCache is a map-backed Cache with injectable failures
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration

	getFunc   func(ctx context.Context, key string) ([]byte, bool, error)
	setErr    error
	deleteErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		items: make(map[string][]byte),
		ttls:  make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.getFunc != nil {
		return c.getFunc(ctx, key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) peek(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return string(v), ok
}

// nopLogger discards everything
type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
