// Package likes owns the album like counter: a cache-aside read path with
// single-flight recomputation, and invalidation after every like or unlike.
//
// Counts stored in the cache are always snapshots of an authoritative
// computation. They are never incremented in place; a mutation deletes the
// counter key and the next read recomputes it.
package likes

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultTTL is how long a recomputed count stays in the cache
	DefaultTTL = 1800 * time.Second

	// DefaultOpTimeout bounds every single cache round trip
	DefaultOpTimeout = 250 * time.Millisecond
)

// Config holds runtime configuration for the likes service
type Config struct {
	TTL       time.Duration
	OpTimeout time.Duration
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		TTL:       DefaultTTL,
		OpTimeout: DefaultOpTimeout,
	}
}

// Stats are cumulative counters exposed for health reporting and tests
type Stats struct {
	Hits           int64
	Misses         int64
	Recomputations int64
	CacheErrors    int64
	StaleWrites    int64
}

type metrics struct {
	hits           atomic.Int64
	misses         atomic.Int64
	recomputations atomic.Int64
	cacheErrors    atomic.Int64
	staleWrites    atomic.Int64
}

// keyState guards the write-back of one counter key. gen is bumped by every
// invalidation so a recomputation that started earlier never overwrites it.
type keyState struct {
	mu  sync.Mutex
	gen uint64
}

// Service implements the like aggregation
type Service struct {
	store  interfaces.LikeStore
	cache  interfaces.Cache
	logger interfaces.Logger
	config Config

	group   singleflight.Group
	keys    sync.Map // counter key -> *keyState
	metrics metrics
}

// NewService creates a likes service. Zero config values fall back to the defaults.
func NewService(store interfaces.LikeStore, cache interfaces.Cache, logger interfaces.Logger, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	return &Service{
		store:  store,
		cache:  cache,
		logger: logger,
		config: cfg,
	}
}

// GetCount returns the like count of an album and where it came from.
// Concurrent misses for the same album share a single recomputation.
func (s *Service) GetCount(ctx context.Context, albumID string) (domain.AggregationResult, error) {
	key := domain.CounterKey(albumID)

	if count, ok := s.readCache(ctx, key); ok {
		s.metrics.hits.Add(1)
		return domain.AggregationResult{Count: count, Origin: domain.OriginCache}, nil
	}
	s.metrics.misses.Add(1)

	// The shared computation must outlive the first caller's cancellation,
	// other callers may still be waiting on it.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.recompute(flightCtx, albumID, key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return domain.AggregationResult{}, res.Err
		}
		return domain.AggregationResult{Count: res.Val.(int), Origin: domain.OriginSource}, nil
	case <-ctx.Done():
		return domain.AggregationResult{}, ctx.Err()
	}
}

// Like records that userID likes albumID and invalidates the counter.
// A second like by the same user fails with *errors.ConflictError.
func (s *Service) Like(ctx context.Context, albumID, userID string) (domain.MutationResult, error) {
	if userID == "" {
		return domain.MutationResult{}, &apperrors.AuthenticationError{Message: "missing user identity"}
	}
	if err := s.ensureAlbum(ctx, albumID); err != nil {
		return domain.MutationResult{}, err
	}

	liked, err := s.store.HasLike(ctx, albumID, userID)
	if err != nil {
		return domain.MutationResult{}, fmt.Errorf("check existing like: %w", err)
	}
	if liked {
		return domain.MutationResult{}, &apperrors.ConflictError{
			Resource: "like",
			Message:  "album is already liked by this user",
		}
	}

	// The store's uniqueness constraint settles concurrent likes for the same pair.
	if err := s.store.InsertLike(ctx, domain.NewLikeRecord(albumID, userID)); err != nil {
		return domain.MutationResult{}, apperrors.WrapError(err, "insert like")
	}

	return s.InvalidateAlbum(ctx, albumID), nil
}

// Unlike removes the like of userID on albumID and invalidates the counter.
// Removing a like that does not exist is a successful no-op.
func (s *Service) Unlike(ctx context.Context, albumID, userID string) (domain.MutationResult, error) {
	if userID == "" {
		return domain.MutationResult{}, &apperrors.AuthenticationError{Message: "missing user identity"}
	}
	if err := s.ensureAlbum(ctx, albumID); err != nil {
		return domain.MutationResult{}, err
	}

	removed, err := s.store.DeleteLike(ctx, albumID, userID)
	if err != nil {
		return domain.MutationResult{}, fmt.Errorf("delete like: %w", err)
	}
	if !removed {
		s.logger.Debug("Unlike without an existing like", map[string]interface{}{
			"album_id": albumID,
			"user_id":  userID,
		})
	}

	return s.InvalidateAlbum(ctx, albumID), nil
}

// InvalidateAlbum drops the cached counter of an album. It must be called after
// the mutation that changed the count has been committed. A cache failure is
// logged and reported through CacheStale; it never fails the caller.
func (s *Service) InvalidateAlbum(ctx context.Context, albumID string) domain.MutationResult {
	key := domain.CounterKey(albumID)

	state := s.state(key)
	state.mu.Lock()
	state.gen++
	state.mu.Unlock()

	// Late readers must not join a computation that started before the mutation.
	s.group.Forget(key)

	opCtx, cancel := context.WithTimeout(ctx, s.config.OpTimeout)
	defer cancel()

	if err := s.cache.Delete(opCtx, key); err != nil {
		s.metrics.cacheErrors.Add(1)
		s.logger.Warn("Failed to invalidate like counter, cache may be stale until TTL", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
			"ttl":   s.config.TTL.String(),
		})
		return domain.MutationResult{CacheStale: true}
	}

	return domain.MutationResult{}
}

// Stats returns a snapshot of the service counters
func (s *Service) Stats() Stats {
	return Stats{
		Hits:           s.metrics.hits.Load(),
		Misses:         s.metrics.misses.Load(),
		Recomputations: s.metrics.recomputations.Load(),
		CacheErrors:    s.metrics.cacheErrors.Load(),
		StaleWrites:    s.metrics.staleWrites.Load(),
	}
}

// recompute counts likes from the store and writes the result back
func (s *Service) recompute(ctx context.Context, albumID, key string) (int, error) {
	// Unknown albums must not allocate key state.
	if err := s.ensureAlbum(ctx, albumID); err != nil {
		return 0, err
	}

	gen := s.generation(key)

	s.metrics.recomputations.Add(1)
	count, err := s.store.CountLikes(ctx, albumID)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	s.writeBack(ctx, key, count, gen)

	s.logger.Debug("Like count recomputed", map[string]interface{}{
		"album_id": albumID,
		"likes":    count,
	})

	return count, nil
}

// readCache returns the cached count. Misses, transport failures, timeouts and
// unparsable values all come back as ok=false.
func (s *Service) readCache(ctx context.Context, key string) (int, bool) {
	opCtx, cancel := context.WithTimeout(ctx, s.config.OpTimeout)
	defer cancel()

	data, found, err := s.cache.Get(opCtx, key)
	if err != nil {
		s.metrics.cacheErrors.Add(1)
		s.logger.Warn("Cache read failed, falling back to store", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return 0, false
	}
	if !found {
		return 0, false
	}

	count, err := strconv.Atoi(string(data))
	if err != nil || count < 0 {
		s.logger.Warn("Ignoring malformed cached like count", map[string]interface{}{
			"key":   key,
			"value": string(data),
		})
		return 0, false
	}

	return count, true
}

// writeBack stores count unless the key was invalidated after gen was read.
// The key lock is held across Set so an invalidation cannot slip in between
// the generation check and the write.
func (s *Service) writeBack(ctx context.Context, key string, count int, gen uint64) {
	state := s.state(key)
	state.mu.Lock()
	defer state.mu.Unlock()

	if state.gen != gen {
		s.metrics.staleWrites.Add(1)
		s.logger.Debug("Skipping write-back of a count computed before invalidation", map[string]interface{}{
			"key": key,
		})
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, s.config.OpTimeout)
	defer cancel()

	if err := s.cache.Set(opCtx, key, []byte(strconv.Itoa(count)), s.config.TTL); err != nil {
		s.metrics.cacheErrors.Add(1)
		s.logger.Warn("Failed to cache like count", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *Service) ensureAlbum(ctx context.Context, albumID string) error {
	exists, err := s.store.AlbumExists(ctx, albumID)
	if err != nil {
		return fmt.Errorf("check album: %w", err)
	}
	if !exists {
		return &apperrors.NotFoundError{Resource: "album", ID: albumID}
	}
	return nil
}

func (s *Service) state(key string) *keyState {
	v, _ := s.keys.LoadOrStore(key, &keyState{})
	return v.(*keyState)
}

func (s *Service) generation(key string) uint64 {
	state := s.state(key)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.gen
}
