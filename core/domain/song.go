package domain

import (
	"strings"
	"time"

	apperrors "openmusic-api/core/errors"
)

// SongIDPrefix is prepended to every generated song identifier
const SongIDPrefix = "song-"

// Song is a catalog song. Duration and AlbumID are optional.
type Song struct {
	ID        string
	Title     string
	Year      int
	Performer string
	Genre     string
	Duration  *int
	AlbumID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SongSummary is the projection used in listings and album details
type SongSummary struct {
	ID        string
	Title     string
	Performer string
}

// SongFilter narrows a song listing with case-insensitive substring matches
type SongFilter struct {
	Title     string
	Performer string
}

// NewSong builds a song with a fresh identifier
func NewSong(title string, year int, performer, genre string, duration *int, albumID *string) *Song {
	now := time.Now().UTC()
	return &Song{
		ID:        SongIDPrefix + newID(),
		Title:     title,
		Year:      year,
		Performer: performer,
		Genre:     genre,
		Duration:  duration,
		AlbumID:   albumID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Summary projects the song for listings
func (s *Song) Summary() SongSummary {
	return SongSummary{ID: s.ID, Title: s.Title, Performer: s.Performer}
}

// Validate checks the song's required and optional fields
func (s *Song) Validate() error {
	required := []struct{ field, value string }{
		{"title", s.Title},
		{"performer", s.Performer},
		{"genre", s.Genre},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &apperrors.ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}
	if err := validateYear(s.Year); err != nil {
		return err
	}
	if s.Duration != nil && *s.Duration < 0 {
		return &apperrors.ValidationError{Field: "duration", Message: "duration cannot be negative"}
	}
	if s.AlbumID != nil && strings.TrimSpace(*s.AlbumID) == "" {
		return &apperrors.ValidationError{Field: "albumId", Message: "albumId cannot be blank"}
	}
	return nil
}
