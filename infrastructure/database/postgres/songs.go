package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// CreateSong inserts a song
func (s *Store) CreateSong(ctx context.Context, song *domain.Song) error {
	q := s.qb().Insert("songs").
		Columns("id", "title", "year", "performer", "genre", "duration", "album_id", "created_at", "updated_at").
		Values(song.ID, song.Title, song.Year, song.Performer, song.Genre, song.Duration, song.AlbumID, song.CreatedAt, song.UpdatedAt)

	if _, err := s.exec(ctx, "CreateSong", q); err != nil {
		return songWriteError(err, song)
	}
	return nil
}

// ListSongs returns summaries filtered by case-insensitive substrings
func (s *Store) ListSongs(ctx context.Context, filter domain.SongFilter) ([]domain.SongSummary, error) {
	q := s.qb().Select("id", "title", "performer").From("songs")
	if filter.Title != "" {
		q = q.Where(sq.ILike{"title": "%" + filter.Title + "%"})
	}
	if filter.Performer != "" {
		q = q.Where(sq.ILike{"performer": "%" + filter.Performer + "%"})
	}
	return s.summaries(ctx, "ListSongs", q.OrderBy("created_at", "id"))
}

// GetSong loads one song
func (s *Store) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	var song domain.Song
	q := s.qb().
		Select("id", "title", "year", "performer", "genre", "duration", "album_id", "created_at", "updated_at").
		From("songs").
		Where(sq.Eq{"id": id})

	err := s.queryRow(ctx, "GetSong", q,
		&song.ID, &song.Title, &song.Year, &song.Performer, &song.Genre,
		&song.Duration, &song.AlbumID, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("song", id)
		}
		return nil, fmt.Errorf("get song: %w", err)
	}
	return &song, nil
}

// SongsByAlbum returns the summaries of an album's songs
func (s *Store) SongsByAlbum(ctx context.Context, albumID string) ([]domain.SongSummary, error) {
	q := s.qb().Select("id", "title", "performer").
		From("songs").
		Where(sq.Eq{"album_id": albumID}).
		OrderBy("created_at", "id")
	return s.summaries(ctx, "SongsByAlbum", q)
}

// UpdateSong replaces the mutable fields of a song
func (s *Store) UpdateSong(ctx context.Context, song *domain.Song) error {
	q := s.qb().Update("songs").
		Set("title", song.Title).
		Set("year", song.Year).
		Set("performer", song.Performer).
		Set("genre", song.Genre).
		Set("duration", song.Duration).
		Set("album_id", song.AlbumID).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": song.ID})

	n, err := s.exec(ctx, "UpdateSong", q)
	if err != nil {
		return songWriteError(err, song)
	}
	if n == 0 {
		return notFound("song", song.ID)
	}
	return nil
}

// DeleteSong removes a song
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "DeleteSong", s.qb().Delete("songs").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if n == 0 {
		return notFound("song", id)
	}
	return nil
}

func (s *Store) summaries(ctx context.Context, op string, q sq.SelectBuilder) ([]domain.SongSummary, error) {
	rows, err := s.query(ctx, op, q)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SongSummary, 0)
	for rows.Next() {
		var sum domain.SongSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Performer); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func songWriteError(err error, song *domain.Song) error {
	if pgCode(err) == pgForeignKeyViolation && song.AlbumID != nil {
		return &apperrors.ValidationError{Field: "albumId", Message: "album " + *song.AlbumID + " does not exist"}
	}
	return fmt.Errorf("write song: %w", err)
}
