package s3

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	apperrors "openmusic-api/core/errors"
	"openmusic-api/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey"}, true},
		{"head not found", minio.ErrorResponse{Code: "NotFound"}, true},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied"}, false},
		{"transport", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNoSuchKey(tt.err))
		})
	}
}

// Integration test runs only when S3_TEST_ENDPOINT points at a disposable MinIO.
func TestStorage_Integration(t *testing.T) {
	endpoint := os.Getenv("S3_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping S3 integration tests - set S3_TEST_ENDPOINT to run")
	}
	ctx := context.Background()

	s, err := NewStorage(ctx, config.S3Config{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    "openmusic-test",
		AccessKey: os.Getenv("S3_TEST_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_TEST_SECRET_KEY"),
	}, nopLogger{})
	require.NoError(t, err)

	key, err := s.Put(ctx, "cover.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)

	rc, contentType, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))
	assert.Equal(t, "image/png", contentType)

	_, _, err = s.Open(ctx, "0-missing.png")
	assert.True(t, apperrors.IsNotFound(err))
}
