// ABOUTME: Filesystem cover storage used by default and in development
// ABOUTME: Objects live as flat files under a single directory

package local

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"
	"openmusic-api/infrastructure/storage"
)

// Storage implements interfaces.BlobStorage on a local directory
type Storage struct {
	dir string
	now func() time.Time
}

var _ interfaces.BlobStorage = (*Storage)(nil)

// NewStorage creates dir if needed
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create covers directory: %w", err)
	}
	return &Storage{dir: dir, now: time.Now}, nil
}

// Put writes the object to a new file and returns its key
func (s *Storage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := storage.NewKey(name, s.now())
	path := filepath.Join(s.dir, key)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	return key, nil
}

// Open streams a stored object. The content type is derived from the key extension.
func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if !storage.ValidKey(key) {
		return nil, "", &apperrors.NotFoundError{Resource: "cover", ID: key}
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", &apperrors.NotFoundError{Resource: "cover", ID: key}
		}
		return nil, "", fmt.Errorf("open %s: %w", key, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}
