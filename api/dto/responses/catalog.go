// ABOUTME: Response DTOs for album, song and like endpoints
// ABOUTME: Field names follow the public camelCase wire format

package responses

import "openmusic-api/core/domain"

// AlbumSummary is an album in a listing
type AlbumSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	CoverURL *string `json:"coverUrl"`
}

// AlbumDetail is a single album with its songs
type AlbumDetail struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Year       int              `json:"year"`
	CoverURL   *string          `json:"coverUrl"`
	CoverColor *domain.RGBColor `json:"coverColor,omitempty"`
	Songs      []SongSummary    `json:"songs"`
}

// SongSummary is a song in a listing
type SongSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Performer string `json:"performer"`
}

// SongDetail is a single song
type SongDetail struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year"`
	Performer string  `json:"performer"`
	Genre     string  `json:"genre"`
	Duration  *int    `json:"duration"`
	AlbumID   *string `json:"albumId"`
}

type AlbumCreated struct {
	AlbumID string `json:"albumId"`
}

type SongCreated struct {
	SongID string `json:"songId"`
}

type AlbumList struct {
	Albums []AlbumSummary `json:"albums"`
}

type AlbumEnvelope struct {
	Album AlbumDetail `json:"album"`
}

type SongList struct {
	Songs []SongSummary `json:"songs"`
}

type SongEnvelope struct {
	Song SongDetail `json:"song"`
}

// LikeCount is the aggregated like counter of an album
type LikeCount struct {
	Likes int `json:"likes"`
}

// HealthStatus reports dependency reachability
type HealthStatus struct {
	Status string `json:"status" enum:"ok,degraded"`
	Store  string `json:"store"`
	Cache  string `json:"cache"`
}
