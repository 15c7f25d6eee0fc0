package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// GetFriendship implements Store.
func (s *SQLStore) GetFriendship(ctx context.Context, ownerID, targetID uint64) (model.FriendshipStatus, bool, error) {
	var status string
	err := s.q.QueryRowContext(ctx,
		"SELECT status FROM friendships WHERE user_id=? AND friend_id=? LIMIT 1", ownerID, targetID).
		Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get friendship %d->%d: %w", ownerID, targetID, err)
	}
	return model.FriendshipStatus(status), true, nil
}

// SaveFriendship creates the owner→target edge or overwrites its status.
func (s *SQLStore) SaveFriendship(ctx context.Context, ownerID, targetID uint64, status model.FriendshipStatus) error {
	_, exists, err := s.GetFriendship(ctx, ownerID, targetID)
	if err != nil {
		return err
	}
	if exists {
		_, err = s.q.ExecContext(ctx,
			"UPDATE friendships SET status=? WHERE user_id=? AND friend_id=?", string(status), ownerID, targetID)
	} else {
		_, err = s.q.ExecContext(ctx,
			"INSERT INTO friendships (user_id, friend_id, status) VALUES (?,?,?)", ownerID, targetID, string(status))
	}
	if err != nil {
		if isDuplicateKey(err) {
			return model.Conflict("friendship %d->%d already exists", ownerID, targetID)
		}
		return fmt.Errorf("save friendship %d->%d: %w", ownerID, targetID, err)
	}
	return nil
}

// DeleteFriendship implements Store.
func (s *SQLStore) DeleteFriendship(ctx context.Context, ownerID, targetID uint64) (bool, error) {
	res, err := s.q.ExecContext(ctx,
		"DELETE FROM friendships WHERE user_id=? AND friend_id=?", ownerID, targetID)
	if err != nil {
		return false, fmt.Errorf("delete friendship %d->%d: %w", ownerID, targetID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
