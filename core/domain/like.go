// ABOUTME: Like records and the aggregated like count returned to callers
// ABOUTME: Counter keys are built in one place so every writer agrees on them

package domain

// LikeIDPrefix is prepended to every generated like identifier
const LikeIDPrefix = "album-like-"

// LikeRecord links a user to an album they like. At most one per (UserID, AlbumID).
type LikeRecord struct {
	ID      string
	UserID  string
	AlbumID string
}

// NewLikeRecord builds a like record with a fresh identifier
func NewLikeRecord(albumID, userID string) LikeRecord {
	return LikeRecord{
		ID:      LikeIDPrefix + newID(),
		UserID:  userID,
		AlbumID: albumID,
	}
}

// CounterKey returns the cache key holding the like count of an album
func CounterKey(albumID string) string {
	return "user_album_likes:" + albumID
}

// Origin tells where an aggregated value came from
type Origin string

const (
	// OriginCache means the value was read from the cache
	OriginCache Origin = "cache"

	// OriginSource means the value was recomputed from the store
	OriginSource Origin = "server"
)

// AggregationResult is a like count together with its provenance
type AggregationResult struct {
	Count  int
	Origin Origin
}

// MutationResult reports the outcome of a like or unlike.
// CacheStale is set when the counter could not be invalidated; the write itself succeeded.
type MutationResult struct {
	CacheStale bool
}
