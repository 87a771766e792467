// ABOUTME: Album service handles the album catalog and cover uploads
// ABOUTME: Deleting an album also drops its like counter from the cache

package albums

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"
	"openmusic-api/pkg/featureflags"
)

// DefaultCoverMaxBytes caps cover uploads when nothing is configured
const DefaultCoverMaxBytes = 512000

// CoverContentTypes are the accepted cover image types
var CoverContentTypes = map[string]bool{
	"image/apng": true,
	"image/avif": true,
	"image/gif":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store is the part of the relational store the album service needs
type Store interface {
	interfaces.AlbumStore
	SongsByAlbum(ctx context.Context, albumID string) ([]domain.SongSummary, error)
}

// ColorExtractor finds the prominent color of an encoded image
type ColorExtractor interface {
	Extract(ctx context.Context, data []byte) (*domain.RGBColor, error)
}

// CounterInvalidator drops an album's cached like counter
type CounterInvalidator interface {
	InvalidateAlbum(ctx context.Context, albumID string) domain.MutationResult
}

// Config holds runtime configuration for the album service
type Config struct {
	// PublicBaseURL prefixes generated cover URLs
	PublicBaseURL string
	CoverMaxBytes int64
}

// CoverUpload is one uploaded cover image
type CoverUpload struct {
	AlbumID     string
	FileName    string
	ContentType string
	Body        io.Reader
}

// Service handles album operations
type Service struct {
	store  Store
	blobs  interfaces.BlobStorage
	likes  CounterInvalidator
	colors ColorExtractor
	flags  featureflags.Manager
	logger interfaces.Logger
	config Config
}

// NewService creates a new album service
func NewService(store Store, blobs interfaces.BlobStorage, likes CounterInvalidator, colors ColorExtractor,
	flags featureflags.Manager, logger interfaces.Logger, cfg Config) *Service {
	if cfg.CoverMaxBytes <= 0 {
		cfg.CoverMaxBytes = DefaultCoverMaxBytes
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &Service{
		store:  store,
		blobs:  blobs,
		likes:  likes,
		colors: colors,
		flags:  flags,
		logger: logger,
		config: cfg,
	}
}

// CoverMaxBytes returns the configured upload limit
func (s *Service) CoverMaxBytes() int64 {
	return s.config.CoverMaxBytes
}

// Create validates and stores a new album
func (s *Service) Create(ctx context.Context, name string, year int) (*domain.Album, error) {
	album := domain.NewAlbum(name, year)
	if err := album.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateAlbum(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

// List returns every album without songs
func (s *Service) List(ctx context.Context) ([]*domain.Album, error) {
	return s.store.ListAlbums(ctx)
}

// Get returns an album together with its songs
func (s *Service) Get(ctx context.Context, id string) (*domain.Album, error) {
	album, err := s.store.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}

	songs, err := s.store.SongsByAlbum(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load songs of %s: %w", id, err)
	}
	album.Songs = songs
	return album, nil
}

// Update changes an album's name and year
func (s *Service) Update(ctx context.Context, id, name string, year int) error {
	candidate := domain.Album{Name: name, Year: year}
	if err := candidate.Validate(); err != nil {
		return err
	}
	return s.store.UpdateAlbum(ctx, id, name, year)
}

// Delete removes an album and invalidates its like counter.
// A failed invalidation is reported in the result, the delete itself stands.
func (s *Service) Delete(ctx context.Context, id string) (domain.MutationResult, error) {
	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		return domain.MutationResult{}, err
	}
	return s.likes.InvalidateAlbum(ctx, id), nil
}

// UploadCover stores a cover image and attaches it to the album.
// The prominent color is extracted when the cover color flag is enabled;
// a failed extraction leaves the color empty.
func (s *Service) UploadCover(ctx context.Context, upload CoverUpload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(upload.ContentType, ";", 2)[0]))
	if !CoverContentTypes[contentType] {
		return "", &apperrors.ValidationError{
			Field:   "cover",
			Message: "cover must be an image (apng, avif, gif, jpeg, png or webp)",
		}
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, s.config.CoverMaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read cover: %w", err)
	}
	if int64(len(data)) > s.config.CoverMaxBytes {
		return "", &apperrors.PayloadTooLargeError{Limit: s.config.CoverMaxBytes}
	}

	if _, err := s.store.GetAlbum(ctx, upload.AlbumID); err != nil {
		return "", err
	}

	key, err := s.blobs.Put(ctx, upload.FileName, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", fmt.Errorf("store cover: %w", err)
	}
	coverURL := s.CoverURL(key)

	var color *domain.RGBColor
	if s.colors != nil && s.flags.IsEnabled(ctx, featureflags.CoverColorEnabled) {
		color, err = s.colors.Extract(ctx, data)
		if err != nil {
			s.logger.Warn("Cover color extraction failed", map[string]interface{}{
				"album_id": upload.AlbumID,
				"key":      key,
				"error":    err.Error(),
			})
			color = nil
		}
	}

	if err := s.store.SetAlbumCover(ctx, upload.AlbumID, coverURL, color); err != nil {
		return "", err
	}

	s.logger.Info("Album cover uploaded", map[string]interface{}{
		"album_id": upload.AlbumID,
		"key":      key,
		"bytes":    len(data),
	})
	return coverURL, nil
}

// OpenCover streams a stored cover image
func (s *Service) OpenCover(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.blobs.Open(ctx, key)
}

// CoverURL returns the public URL of a stored cover
func (s *Service) CoverURL(key string) string {
	return s.config.PublicBaseURL + "/albums/covers/" + key
}
