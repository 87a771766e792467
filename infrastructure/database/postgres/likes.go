package postgres

import (
	"context"
	"fmt"

	"openmusic-api/core/domain"
	apperrors "openmusic-api/core/errors"

	sq "github.com/Masterminds/squirrel"
)

// CountLikes counts the like records of an album
func (s *Store) CountLikes(ctx context.Context, albumID string) (int, error) {
	var n int
	q := s.qb().Select("COUNT(*)").From("user_album_likes").Where(sq.Eq{"album_id": albumID})

	if err := s.queryRow(ctx, "CountLikes", q, &n); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

// HasLike reports whether the user already likes the album
func (s *Store) HasLike(ctx context.Context, albumID, userID string) (bool, error) {
	var exists bool
	q := s.qb().Select("1").
		Prefix("SELECT EXISTS (").
		From("user_album_likes").
		Where(sq.Eq{"album_id": albumID, "user_id": userID}).
		Suffix(")")

	if err := s.queryRow(ctx, "HasLike", q, &exists); err != nil {
		return false, fmt.Errorf("has like: %w", err)
	}
	return exists, nil
}

// InsertLike stores a like. The unique (user_id, album_id) constraint decides concurrent duplicates.
func (s *Store) InsertLike(ctx context.Context, like domain.LikeRecord) error {
	q := s.qb().Insert("user_album_likes").
		Columns("id", "user_id", "album_id").
		Values(like.ID, like.UserID, like.AlbumID)

	if _, err := s.exec(ctx, "InsertLike", q); err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return &apperrors.ConflictError{Resource: "like", Message: "album is already liked by this user"}
		case pgForeignKeyViolation:
			return notFound("album", like.AlbumID)
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// DeleteLike removes a like and reports whether one existed
func (s *Store) DeleteLike(ctx context.Context, albumID, userID string) (bool, error) {
	q := s.qb().Delete("user_album_likes").Where(sq.Eq{"album_id": albumID, "user_id": userID})

	n, err := s.exec(ctx, "DeleteLike", q)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return n > 0, nil
}
