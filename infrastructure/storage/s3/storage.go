// ABOUTME: S3-compatible cover storage backed by minio-go
// ABOUTME: Works against MinIO as well as AWS S3

package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"
	"openmusic-api/infrastructure/http/standard"
	"openmusic-api/infrastructure/storage"
	"openmusic-api/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage implements interfaces.BlobStorage on an S3 bucket
type Storage struct {
	cl     *minio.Client
	bucket string
	logger interfaces.Logger
}

var _ interfaces.BlobStorage = (*Storage)(nil)

// NewStorage connects to the endpoint and creates the bucket when missing
func NewStorage(ctx context.Context, cfg config.S3Config, logger interfaces.Logger) (*Storage, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: standard.NewTransport(nil, logger),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	exists, err := cl.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cl.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("Created cover bucket", map[string]interface{}{"bucket": cfg.Bucket})
	}

	return &Storage{cl: cl, bucket: cfg.Bucket, logger: logger}, nil
}

// Put uploads the object and returns its key
func (s *Storage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := storage.NewKey(name, time.Now())

	info, err := s.cl.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	s.logger.Debug("Cover uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   info.Size,
	})
	return key, nil
}

// Open streams a stored object
func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !storage.ValidKey(key) {
		return nil, "", &apperrors.NotFoundError{Resource: "cover", ID: key}
	}

	info, err := s.cl.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", &apperrors.NotFoundError{Resource: "cover", ID: key}
		}
		return nil, "", fmt.Errorf("stat %s: %w", key, err)
	}

	obj, err := s.cl.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", key, err)
	}
	return obj, info.ContentType, nil
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
