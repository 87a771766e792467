// ABOUTME: Mappers for converting catalog domain models to API DTOs
// ABOUTME: Empty cover URLs become JSON null

package mappers

import (
	"openmusic-api/api/dto/responses"
	"openmusic-api/core/domain"
)

// ToAlbumSummary converts an album for listings
func ToAlbumSummary(album *domain.Album) responses.AlbumSummary {
	return responses.AlbumSummary{
		ID:       album.ID,
		Name:     album.Name,
		Year:     album.Year,
		CoverURL: optional(album.CoverURL),
	}
}

// ToAlbumSummaries converts multiple albums
func ToAlbumSummaries(albums []*domain.Album) []responses.AlbumSummary {
	out := make([]responses.AlbumSummary, 0, len(albums))
	for _, a := range albums {
		if a != nil {
			out = append(out, ToAlbumSummary(a))
		}
	}
	return out
}

// ToAlbumDetail converts an album with its songs
func ToAlbumDetail(album *domain.Album) responses.AlbumDetail {
	return responses.AlbumDetail{
		ID:         album.ID,
		Name:       album.Name,
		Year:       album.Year,
		CoverURL:   optional(album.CoverURL),
		CoverColor: album.CoverColor,
		Songs:      ToSongSummaries(album.Songs),
	}
}

// ToSongSummaries converts song projections, never returning nil
func ToSongSummaries(songs []domain.SongSummary) []responses.SongSummary {
	out := make([]responses.SongSummary, 0, len(songs))
	for _, s := range songs {
		out = append(out, responses.SongSummary{ID: s.ID, Title: s.Title, Performer: s.Performer})
	}
	return out
}

// ToSongDetail converts a full song
func ToSongDetail(song *domain.Song) responses.SongDetail {
	return responses.SongDetail{
		ID:        song.ID,
		Title:     song.Title,
		Year:      song.Year,
		Performer: song.Performer,
		Genre:     song.Genre,
		Duration:  song.Duration,
		AlbumID:   song.AlbumID,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
