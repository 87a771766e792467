// ABOUTME: Request DTOs for album and song endpoints
// ABOUTME: Struct tags drive huma's request validation

package requests

// AlbumRequest is the body of album create and update
type AlbumRequest struct {
	Name string `json:"name" minLength:"1" doc:"Album name"`
	Year int    `json:"year" minimum:"1900" doc:"Release year"`
}

// SongRequest is the body of song create and update
type SongRequest struct {
	Title     string  `json:"title" minLength:"1"`
	Year      int     `json:"year" minimum:"1900"`
	Performer string  `json:"performer" minLength:"1"`
	Genre     string  `json:"genre" minLength:"1"`
	Duration  *int    `json:"duration,omitempty" minimum:"0" doc:"Length in seconds"`
	AlbumID   *string `json:"albumId,omitempty" doc:"Album the song belongs to"`
}

// SongQuery filters the song listing
type SongQuery struct {
	Title     string `query:"title" doc:"Case-insensitive substring of the title"`
	Performer string `query:"performer" doc:"Case-insensitive substring of the performer"`
}
