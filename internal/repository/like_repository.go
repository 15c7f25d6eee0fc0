package repository

import (
	"context"
	"fmt"
)

// HasLike reports whether userID has liked filmID.
func (s *SQLStore) HasLike(ctx context.Context, filmID, userID uint64) (bool, error) {
	var n int
	if err := s.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE film_id=? AND user_id=?", filmID, userID).Scan(&n); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return n > 0, nil
}

// AddLike records that userID likes filmID.  A repeated like is a
// ConflictError.
func (s *SQLStore) AddLike(ctx context.Context, filmID, userID uint64) error {
	if _, err := s.q.ExecContext(ctx,
		"INSERT INTO likes (film_id, user_id) VALUES (?,?)", filmID, userID); err != nil {
		if isDuplicateKey(err) {
			return errLikeExists(filmID, userID)
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// RemoveLike implements Store.
func (s *SQLStore) RemoveLike(ctx context.Context, filmID, userID uint64) (bool, error) {
	res, err := s.q.ExecContext(ctx, "DELETE FROM likes WHERE film_id=? AND user_id=?", filmID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
