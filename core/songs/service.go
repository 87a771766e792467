// ABOUTME: Song service handles the song catalog
// ABOUTME: Songs optionally reference an album that must exist

package songs

import (
	"context"
	"strings"

	"openmusic-api/core/domain"
	"openmusic-api/core/interfaces"
)

// Input carries the writable fields of a song
type Input struct {
	Title     string
	Year      int
	Performer string
	Genre     string
	Duration  *int
	AlbumID   *string
}

// Service handles song operations
type Service struct {
	store interfaces.SongStore
}

// NewService creates a new song service
func NewService(store interfaces.SongStore) *Service {
	return &Service{store: store}
}

// Create validates and stores a new song
func (s *Service) Create(ctx context.Context, in Input) (*domain.Song, error) {
	song := domain.NewSong(in.Title, in.Year, in.Performer, in.Genre, in.Duration, in.AlbumID)
	if err := song.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateSong(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// List returns song summaries, optionally filtered by title and performer
func (s *Service) List(ctx context.Context, filter domain.SongFilter) ([]domain.SongSummary, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Performer = strings.TrimSpace(filter.Performer)
	return s.store.ListSongs(ctx, filter)
}

// Get returns one song
func (s *Service) Get(ctx context.Context, id string) (*domain.Song, error) {
	return s.store.GetSong(ctx, id)
}

// Update replaces the writable fields of a song
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	song := &domain.Song{
		ID:        id,
		Title:     in.Title,
		Year:      in.Year,
		Performer: in.Performer,
		Genre:     in.Genre,
		Duration:  in.Duration,
		AlbumID:   in.AlbumID,
	}
	if err := song.Validate(); err != nil {
		return err
	}
	return s.store.UpdateSong(ctx, song)
}

// Delete removes a song
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteSong(ctx, id)
}
