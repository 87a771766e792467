// ABOUTME: In-memory implementation of the catalog store
// ABOUTME: Used for local runs and handler tests; enforces the same constraints as postgres

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"
	"openmusic-api/core/interfaces"
)

type likeKey struct {
	albumID string
	userID  string
}

// Store implements interfaces.Store with maps guarded by one lock
type Store struct {
	mu     sync.RWMutex
	albums map[string]domain.Album
	songs  map[string]domain.Song
	likes  map[likeKey]domain.LikeRecord
}

var _ interfaces.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		albums: make(map[string]domain.Album),
		songs:  make(map[string]domain.Song),
		likes:  make(map[likeKey]domain.LikeRecord),
	}
}

// CreateAlbum stores a new album
func (s *Store) CreateAlbum(ctx context.Context, album *domain.Album) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[album.ID]; ok {
		return &apperrors.ConflictError{Resource: "album", Message: "album already exists"}
	}
	stored := *album
	stored.Songs = nil
	s.albums[album.ID] = stored
	return nil
}

// ListAlbums returns albums ordered by creation time
func (s *Store) ListAlbums(ctx context.Context) ([]*domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Album, 0, len(s.albums))
	for _, a := range s.albums {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// GetAlbum returns an album without its songs
func (s *Store) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.albums[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	return &a, nil
}

// UpdateAlbum changes the name and year of an album
func (s *Store) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.albums[id]
	if !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	a.Name = name
	a.Year = year
	a.UpdatedAt = time.Now().UTC()
	s.albums[id] = a
	return nil
}

// DeleteAlbum removes an album, its likes, and detaches its songs
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[id]; !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	delete(s.albums, id)

	for k := range s.likes {
		if k.albumID == id {
			delete(s.likes, k)
		}
	}
	for songID, song := range s.songs {
		if song.AlbumID != nil && *song.AlbumID == id {
			song.AlbumID = nil
			s.songs[songID] = song
		}
	}
	return nil
}

// SetAlbumCover records the cover URL and color of an album
func (s *Store) SetAlbumCover(ctx context.Context, id, coverURL string, color *domain.RGBColor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.albums[id]
	if !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: id}
	}
	a.CoverURL = coverURL
	a.CoverColor = color
	a.UpdatedAt = time.Now().UTC()
	s.albums[id] = a
	return nil
}

// CreateSong stores a new song. A reference to an unknown album is rejected.
func (s *Store) CreateSong(ctx context.Context, song *domain.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAlbumRef(song.AlbumID); err != nil {
		return err
	}
	s.songs[song.ID] = *song
	return nil
}

// ListSongs returns song summaries matching filter, ordered by creation time
func (s *Store) ListSongs(ctx context.Context, filter domain.SongFilter) ([]domain.SongSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	title := strings.ToLower(filter.Title)
	performer := strings.ToLower(filter.Performer)

	matched := make([]domain.Song, 0, len(s.songs))
	for _, song := range s.songs {
		if title != "" && !strings.Contains(strings.ToLower(song.Title), title) {
			continue
		}
		if performer != "" && !strings.Contains(strings.ToLower(song.Performer), performer) {
			continue
		}
		matched = append(matched, song)
	}
	return summaries(matched), nil
}

// GetSong returns a song
func (s *Store) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songs[id]
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "song", ID: id}
	}
	return &song, nil
}

// SongsByAlbum returns the summaries of songs belonging to an album
func (s *Store) SongsByAlbum(ctx context.Context, albumID string) ([]domain.SongSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Song, 0)
	for _, song := range s.songs {
		if song.AlbumID != nil && *song.AlbumID == albumID {
			matched = append(matched, song)
		}
	}
	return summaries(matched), nil
}

// UpdateSong replaces the mutable fields of a song
func (s *Store) UpdateSong(ctx context.Context, song *domain.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.songs[song.ID]
	if !ok {
		return &apperrors.NotFoundError{Resource: "song", ID: song.ID}
	}
	if err := s.checkAlbumRef(song.AlbumID); err != nil {
		return err
	}

	updated := *song
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.songs[song.ID] = updated
	return nil
}

// DeleteSong removes a song
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.songs[id]; !ok {
		return &apperrors.NotFoundError{Resource: "song", ID: id}
	}
	delete(s.songs, id)
	return nil
}

// AlbumExists reports whether the album is present
func (s *Store) AlbumExists(ctx context.Context, albumID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.albums[albumID]
	return ok, nil
}

// CountLikes counts the like records of an album
func (s *Store) CountLikes(ctx context.Context, albumID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for k := range s.likes {
		if k.albumID == albumID {
			n++
		}
	}
	return n, nil
}

// HasLike reports whether the user already likes the album
func (s *Store) HasLike(ctx context.Context, albumID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.likes[likeKey{albumID, userID}]
	return ok, nil
}

// InsertLike stores a like, enforcing one per (user, album)
func (s *Store) InsertLike(ctx context.Context, like domain.LikeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.albums[like.AlbumID]; !ok {
		return &apperrors.NotFoundError{Resource: "album", ID: like.AlbumID}
	}
	k := likeKey{like.AlbumID, like.UserID}
	if _, ok := s.likes[k]; ok {
		return &apperrors.ConflictError{Resource: "like", Message: "album is already liked by this user"}
	}
	s.likes[k] = like
	return nil
}

// DeleteLike removes a like and reports whether one existed
func (s *Store) DeleteLike(ctx context.Context, albumID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := likeKey{albumID, userID}
	if _, ok := s.likes[k]; !ok {
		return false, nil
	}
	delete(s.likes, k)
	return true, nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *Store) Close() {}

// checkAlbumRef must be called with the lock held
func (s *Store) checkAlbumRef(albumID *string) error {
	if albumID == nil {
		return nil
	}
	if _, ok := s.albums[*albumID]; !ok {
		return &apperrors.ValidationError{Field: "albumId", Message: "album " + *albumID + " does not exist"}
	}
	return nil
}

func summaries(songs []domain.Song) []domain.SongSummary {
	sort.Slice(songs, func(i, j int) bool {
		if songs[i].CreatedAt.Equal(songs[j].CreatedAt) {
			return songs[i].ID < songs[j].ID
		}
		return songs[i].CreatedAt.Before(songs[j].CreatedAt)
	})
	out := make([]domain.SongSummary, len(songs))
	for i := range songs {
		out[i] = songs[i].Summary()
	}
	return out
}
