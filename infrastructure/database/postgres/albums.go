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

var albumColumns = []string{"id", "name", "year", "cover_url", "cover_r", "cover_g", "cover_b", "created_at", "updated_at"}

type albumRow struct {
	album    domain.Album
	coverURL *string
	r, g, b  *int16
}

func (row *albumRow) targets() []any {
	a := &row.album
	return []any{&a.ID, &a.Name, &a.Year, &row.coverURL, &row.r, &row.g, &row.b, &a.CreatedAt, &a.UpdatedAt}
}

func (row *albumRow) toDomain() *domain.Album {
	a := row.album
	if row.coverURL != nil {
		a.CoverURL = *row.coverURL
	}
	if row.r != nil && row.g != nil && row.b != nil {
		a.CoverColor = &domain.RGBColor{R: uint8(*row.r), G: uint8(*row.g), B: uint8(*row.b)}
	}
	return &a
}

// CreateAlbum inserts an album
func (s *Store) CreateAlbum(ctx context.Context, album *domain.Album) error {
	q := s.qb().Insert("albums").
		Columns("id", "name", "year", "created_at", "updated_at").
		Values(album.ID, album.Name, album.Year, album.CreatedAt, album.UpdatedAt)

	if _, err := s.exec(ctx, "CreateAlbum", q); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return &apperrors.ConflictError{Resource: "album", Message: "album already exists"}
		}
		return fmt.Errorf("insert album: %w", err)
	}
	return nil
}

// ListAlbums returns every album ordered by creation time
func (s *Store) ListAlbums(ctx context.Context) ([]*domain.Album, error) {
	q := s.qb().Select(albumColumns...).From("albums").OrderBy("created_at", "id")

	rows, err := s.query(ctx, "ListAlbums", q)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Album, 0)
	for rows.Next() {
		var row albumRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, rows.Err()
}

// GetAlbum loads one album without its songs
func (s *Store) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	var row albumRow
	q := s.qb().Select(albumColumns...).From("albums").Where(sq.Eq{"id": id})

	if err := s.queryRow(ctx, "GetAlbum", q, row.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("album", id)
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	return row.toDomain(), nil
}

// UpdateAlbum changes the name and year of an album
func (s *Store) UpdateAlbum(ctx context.Context, id, name string, year int) error {
	q := s.qb().Update("albums").
		Set("name", name).
		Set("year", year).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	n, err := s.exec(ctx, "UpdateAlbum", q)
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	if n == 0 {
		return notFound("album", id)
	}
	return nil
}

// DeleteAlbum removes an album. Likes cascade and songs are detached by the schema.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "DeleteAlbum", s.qb().Delete("albums").Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if n == 0 {
		return notFound("album", id)
	}
	return nil
}

// SetAlbumCover records the cover location and color
func (s *Store) SetAlbumCover(ctx context.Context, id, coverURL string, color *domain.RGBColor) error {
	var r, g, b *int16
	if color != nil {
		rv, gv, bv := int16(color.R), int16(color.G), int16(color.B)
		r, g, b = &rv, &gv, &bv
	}

	q := s.qb().Update("albums").
		Set("cover_url", coverURL).
		Set("cover_r", r).
		Set("cover_g", g).
		Set("cover_b", b).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})

	n, err := s.exec(ctx, "SetAlbumCover", q)
	if err != nil {
		return fmt.Errorf("set album cover: %w", err)
	}
	if n == 0 {
		return notFound("album", id)
	}
	return nil
}

// AlbumExists reports whether the album is present
func (s *Store) AlbumExists(ctx context.Context, albumID string) (bool, error) {
	var exists bool
	q := s.qb().Select("1").Prefix("SELECT EXISTS (").From("albums").Where(sq.Eq{"id": albumID}).Suffix(")")

	if err := s.queryRow(ctx, "AlbumExists", q, &exists); err != nil {
		return false, fmt.Errorf("album exists: %w", err)
	}
	return exists, nil
}
