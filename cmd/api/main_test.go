package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"openmusic-api/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:          "127.0.0.1",
			Port:          "0",
			PublicBaseURL: "http://127.0.0.1",
			RateLimit:     100,
			RateWindow:    time.Minute,
			CoverMaxBytes: 512000,
		},
		Cache: config.CacheConfig{
			Type:      "memory",
			TTL:       time.Minute,
			OpTimeout: 50 * time.Millisecond,
			Memory:    config.MemoryConfig{CleanupInterval: time.Minute},
		},
		Store:   config.StoreConfig{Type: "memory"},
		Storage: config.StorageConfig{Type: "local", LocalDir: filepath.Join(t.TempDir(), "covers")},
		Auth:    config.AuthConfig{AccessTokenKey: "test-key", AccessTokenAge: time.Hour},
	}
}

func TestServe_CoverStorageFailureReturnsError(t *testing.T) {
	cfg := testConfig(t)

	// a regular file where the covers directory should be
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.Storage.LocalDir = filepath.Join(blocker, "covers")

	err := serve(context.Background(), cfg, nopLogger{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "open cover storage")
}

func TestServe_StopsWhenContextIsDone(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, nopLogger{}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServe_ListenFailureReturnsError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = "not-a-port"

	err := serve(context.Background(), cfg, nopLogger{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http server")
}
