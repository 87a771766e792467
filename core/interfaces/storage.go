// ABOUTME: Storage interfaces for persisting catalog entities
// ABOUTME: The relational store is the source of truth for albums, songs and likes

package interfaces

import (
	"context"
	"io"

	"openmusic-api/core/domain"
)

// AlbumStore persists albums. Lookups of absent albums return *errors.NotFoundError.
type AlbumStore interface {
	CreateAlbum(ctx context.Context, album *domain.Album) error
	ListAlbums(ctx context.Context) ([]*domain.Album, error)
	GetAlbum(ctx context.Context, id string) (*domain.Album, error)
	UpdateAlbum(ctx context.Context, id, name string, year int) error
	DeleteAlbum(ctx context.Context, id string) error
	SetAlbumCover(ctx context.Context, id, coverURL string, color *domain.RGBColor) error
}

// SongStore persists songs. Lookups of absent songs return *errors.NotFoundError.
type SongStore interface {
	CreateSong(ctx context.Context, song *domain.Song) error
	ListSongs(ctx context.Context, filter domain.SongFilter) ([]domain.SongSummary, error)
	GetSong(ctx context.Context, id string) (*domain.Song, error)
	SongsByAlbum(ctx context.Context, albumID string) ([]domain.SongSummary, error)
	UpdateSong(ctx context.Context, song *domain.Song) error
	DeleteSong(ctx context.Context, id string) error
}

// LikeStore is the authoritative side of the like counter.
type LikeStore interface {
	// AlbumExists reports whether the album is present.
	AlbumExists(ctx context.Context, albumID string) (bool, error)

	// CountLikes computes the number of like records of an album.
	CountLikes(ctx context.Context, albumID string) (int, error)

	// HasLike reports whether the user already likes the album.
	HasLike(ctx context.Context, albumID, userID string) (bool, error)

	// InsertLike stores a record. A duplicate (user, album) pair fails with *errors.ConflictError.
	InsertLike(ctx context.Context, like domain.LikeRecord) error

	// DeleteLike removes the record if present and reports whether one was removed.
	DeleteLike(ctx context.Context, albumID, userID string) (bool, error)
}

// Store is the full relational store with its lifecycle.
type Store interface {
	AlbumStore
	SongStore
	LikeStore

	Ping(ctx context.Context) error
	Close()
}

// BlobStorage keeps binary cover images.
type BlobStorage interface {
	// Put stores the content under a generated key derived from name and returns the key.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)

	// Open streams a stored object. Absent keys return *errors.NotFoundError.
	Open(ctx context.Context, key string) (rc io.ReadCloser, contentType string, err error)
}
