// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, store, storage, auth and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Store contains relational store configuration
	Store StoreConfig

	// Storage contains cover image storage configuration
	Storage StorageConfig

	// Auth contains access token configuration
	Auth AuthConfig

	// Log contains logger configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string
	Port string

	// PublicBaseURL prefixes generated cover URLs
	PublicBaseURL string

	// RateLimit is the number of requests allowed per RateWindow for one IP
	RateLimit  int
	RateWindow time.Duration

	// TrustProxyHeaders keys the rate limit by X-Forwarded-For. Enable only
	// behind a reverse proxy that sets the header on every request.
	TrustProxyHeaders bool

	// ServerErrorMessage replaces the detail of every server-side failure
	ServerErrorMessage string

	// CoverMaxBytes caps cover uploads
	CoverMaxBytes int64
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory/sqlite)
	Type string

	// TTL is how long a like counter lives in the cache
	TTL time.Duration

	// OpTimeout bounds each cache round trip
	OpTimeout time.Duration

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLite contains file-backed cache configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration
}

// SQLiteConfig holds file-backed cache configuration
type SQLiteConfig struct {
	Path string
}

// StoreConfig selects and configures the source of truth
type StoreConfig struct {
	// Type is postgres or memory
	Type     string
	Postgres PostgresConfig
}

// PostgresConfig uses the libpq environment variable names
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns a postgres connection URL
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// StorageConfig selects where cover images are kept
type StorageConfig struct {
	// Type is local or s3
	Type string

	// LocalDir is the directory used by the local backend
	LocalDir string

	S3 S3Config
}

// S3Config holds S3-compatible object storage configuration
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// AuthConfig holds access token configuration
type AuthConfig struct {
	AccessTokenKey string
	AccessTokenAge time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string

	// File enables rotated file output when set
	File string
}

var defaults = map[string]interface{}{
	"HOST":                         "0.0.0.0",
	"PORT":                         "5000",
	"PUBLIC_BASE_URL":              "",
	"RATE_LIMIT":                   100,
	"RATE_WINDOW_SECONDS":          60,
	"TRUST_PROXY_HEADERS":          false,
	"SERVER_ERROR_MESSAGE":         "",
	"COVER_MAX_BYTES":              512000,
	"CACHE_TYPE":                   "memory",
	"CACHE_TTL_SECONDS":            1800,
	"CACHE_OP_TIMEOUT_MS":          250,
	"REDIS_ADDRESS":                "localhost:6379",
	"REDIS_PASSWORD":               "",
	"REDIS_DB":                     0,
	"MEMORY_CACHE_CLEANUP_SECONDS": 600,
	"SQLITE_CACHE_PATH":            "cache.db",
	"STORE_TYPE":                   "memory",
	"PGHOST":                       "localhost",
	"PGPORT":                       5432,
	"PGUSER":                       "postgres",
	"PGPASSWORD":                   "",
	"PGDATABASE":                   "openmusic",
	"PGSSLMODE":                    "disable",
	"STORAGE_TYPE":                 "local",
	"COVERS_DIR":                   "uploads/covers",
	"S3_ENDPOINT":                  "",
	"S3_REGION":                    "us-east-1",
	"S3_BUCKET":                    "covers",
	"S3_ACCESS_KEY":                "",
	"S3_SECRET_KEY":                "",
	"S3_USE_SSL":                   false,
	"ACCESS_TOKEN_KEY":             "",
	"ACCESS_TOKEN_AGE":             10800,
	"LOG_LEVEL":                    "info",
	"LOG_FORMAT":                   "json",
	"LOG_FILE":                     "",
}

// LoadFromEnv loads configuration from environment variables. A .env file in
// the working directory is read first; real environment variables win.
func LoadFromEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:               v.GetString("HOST"),
			Port:               v.GetString("PORT"),
			PublicBaseURL:      v.GetString("PUBLIC_BASE_URL"),
			RateLimit:          v.GetInt("RATE_LIMIT"),
			RateWindow:         seconds(v.GetInt("RATE_WINDOW_SECONDS")),
			TrustProxyHeaders:  v.GetBool("TRUST_PROXY_HEADERS"),
			ServerErrorMessage: v.GetString("SERVER_ERROR_MESSAGE"),
			CoverMaxBytes:      v.GetInt64("COVER_MAX_BYTES"),
		},
		Cache: CacheConfig{
			Type:      strings.ToLower(v.GetString("CACHE_TYPE")),
			TTL:       seconds(v.GetInt("CACHE_TTL_SECONDS")),
			OpTimeout: time.Duration(v.GetInt("CACHE_OP_TIMEOUT_MS")) * time.Millisecond,
			Redis: RedisConfig{
				Address:  v.GetString("REDIS_ADDRESS"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
			Memory: MemoryConfig{
				CleanupInterval: seconds(v.GetInt("MEMORY_CACHE_CLEANUP_SECONDS")),
			},
			SQLite: SQLiteConfig{
				Path: v.GetString("SQLITE_CACHE_PATH"),
			},
		},
		Store: StoreConfig{
			Type: strings.ToLower(v.GetString("STORE_TYPE")),
			Postgres: PostgresConfig{
				Host:     v.GetString("PGHOST"),
				Port:     v.GetInt("PGPORT"),
				User:     v.GetString("PGUSER"),
				Password: v.GetString("PGPASSWORD"),
				Database: v.GetString("PGDATABASE"),
				SSLMode:  v.GetString("PGSSLMODE"),
			},
		},
		Storage: StorageConfig{
			Type:     strings.ToLower(v.GetString("STORAGE_TYPE")),
			LocalDir: v.GetString("COVERS_DIR"),
			S3: S3Config{
				Endpoint:  v.GetString("S3_ENDPOINT"),
				Region:    v.GetString("S3_REGION"),
				Bucket:    v.GetString("S3_BUCKET"),
				AccessKey: v.GetString("S3_ACCESS_KEY"),
				SecretKey: v.GetString("S3_SECRET_KEY"),
				UseSSL:    v.GetBool("S3_USE_SSL"),
			},
		},
		Auth: AuthConfig{
			AccessTokenKey: v.GetString("ACCESS_TOKEN_KEY"),
			AccessTokenAge: seconds(v.GetInt("ACCESS_TOKEN_AGE")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
			File:   v.GetString("LOG_FILE"),
		},
	}

	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = "http://" + cfg.Server.Addr()
	}

	return cfg, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit <= 0 || c.Server.RateWindow <= 0 {
		return errors.New("rate limit and rate window must be positive")
	}

	if c.Server.CoverMaxBytes <= 0 {
		return errors.New("cover max bytes must be positive")
	}

	switch c.Cache.Type {
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "memory":
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite cache path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'redis', 'memory' or 'sqlite'")
	}

	if c.Cache.TTL < time.Second {
		return errors.New("cache ttl must be at least 1 second")
	}

	if c.Cache.OpTimeout <= 0 {
		return errors.New("cache operation timeout must be positive")
	}

	switch c.Store.Type {
	case "postgres":
		if c.Store.Postgres.Host == "" || c.Store.Postgres.Database == "" {
			return errors.New("postgres host and database are required when using postgres store")
		}
	case "memory":
	default:
		return errors.New("store type must be 'postgres' or 'memory'")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.LocalDir == "" {
			return errors.New("covers directory cannot be empty when using local storage")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return errors.New("s3 endpoint and bucket are required when using s3 storage")
		}
	default:
		return errors.New("storage type must be 'local' or 's3'")
	}

	if c.Auth.AccessTokenKey == "" {
		return errors.New("access token key cannot be empty")
	}

	if c.Auth.AccessTokenAge <= 0 {
		return errors.New("access token age must be positive")
	}

	return nil
}
