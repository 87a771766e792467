// ABOUTME: Album domain model and constructor with identifier generation
// ABOUTME: Albums own songs by reference and carry an optional cover image

package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "openmusic-api/core/errors"

	"github.com/google/uuid"
)

// AlbumIDPrefix is prepended to every generated album identifier
const AlbumIDPrefix = "album-"

// MinYear is the earliest accepted release year
const MinYear = 1900

// Album is a catalog album
type Album struct {
	ID         string
	Name       string
	Year       int
	CoverURL   string
	CoverColor *RGBColor
	Songs      []SongSummary
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RGBColor represents the prominent color of a cover image
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// NewAlbum builds an album with a fresh identifier
func NewAlbum(name string, year int) *Album {
	now := time.Now().UTC()
	return &Album{
		ID:        AlbumIDPrefix + newID(),
		Name:      name,
		Year:      year,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newID returns a 16 character random identifier
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// Validate checks the album's required fields
func (a *Album) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &apperrors.ValidationError{Field: "name", Message: "name is required"}
	}
	return validateYear(a.Year)
}

// validateYear accepts years from MinYear up to the current year
func validateYear(year int) error {
	maxYear := time.Now().UTC().Year()
	if year < MinYear || year > maxYear {
		return &apperrors.ValidationError{
			Field:   "year",
			Message: "year must be between " + strconv.Itoa(MinYear) + " and " + strconv.Itoa(maxYear),
		}
	}
	return nil
}
