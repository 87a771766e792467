// Package infrastructure provides concrete implementations of the interfaces
// defined in core/interfaces.
//
// The packages are organized by technical concern:
//
//   - auth/jwt: HS256 access tokens with golang-jwt
//   - cache/memory: in-process cache on patrickmn/go-cache
//   - cache/redis: go-redis cache
//   - cache/sqlite: file-backed cache on go-sqlite3
//   - database/memory: in-memory catalog store
//   - database/postgres: pgx store with embedded golang-migrate migrations
//   - http/standard: logging RoundTripper for outbound calls
//   - logger/logrus: structured logger with optional rotated file output
//   - storage/local and storage/s3: cover image storage
//
// # Cache
//
// Every cache backend satisfies the same contract. A miss is (nil, false, nil);
// an error means the backend could not answer:
//
//	cache := memory.NewMemoryCache(10 * time.Minute)
//	err := cache.Set(ctx, "user_album_likes:album-42", []byte("3"), 30*time.Minute)
//	value, found, err := cache.Get(ctx, "user_album_likes:album-42")
//
// # Logger
//
//	logger := logrus.New(logrus.Options{Level: "info", Format: "json"})
//	logger.Info("Album created", map[string]interface{}{
//	    "album_id": "album-42",
//	})
package infrastructure
