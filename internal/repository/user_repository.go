package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

const userColumns = "user_id,email,login,name,birthday"

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var (
		u        model.User
		birthday model.Date
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Login, &u.Name, &birthday); err != nil {
		return nil, err
	}
	u.Birthday = &birthday
	u.Friends = map[uint64]model.FriendshipStatus{}
	return &u, nil
}

// GetUser fetches a user together with its outgoing friendship edges.
func (s *SQLStore) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(s.q.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if err := s.attachFriends(ctx, []*model.User{u}); err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns every user ordered by id.
func (s *SQLStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.queryUsers(ctx, "SELECT "+userColumns+" FROM users ORDER BY user_id")
}

// ListUsersByIDs returns the users with the given ids ordered by id.
// Unknown ids are skipped.
func (s *SQLStore) ListUsersByIDs(ctx context.Context, ids []uint64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return s.queryUsers(ctx,
		"SELECT "+userColumns+" FROM users WHERE user_id IN ("+placeholders(len(ids))+") ORDER BY user_id",
		args...)
}

func (s *SQLStore) queryUsers(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachFriends(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// attachFriends loads the outgoing edges of the given users in one query.
func (s *SQLStore) attachFriends(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.User, len(users))
	args := make([]any, 0, len(users))
	for _, u := range users {
		byID[u.ID] = u
		args = append(args, u.ID)
	}
	rows, err := s.q.QueryContext(ctx,
		"SELECT user_id,friend_id,status FROM friendships WHERE user_id IN ("+placeholders(len(args))+")",
		args...)
	if err != nil {
		return fmt.Errorf("load friendships: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			owner, friend uint64
			status        string
		)
		if err := rows.Scan(&owner, &friend, &status); err != nil {
			return fmt.Errorf("scan friendship: %w", err)
		}
		if u, ok := byID[owner]; ok {
			u.Friends[friend] = model.FriendshipStatus(status)
		}
	}
	return rows.Err()
}

// CreateUser inserts u and stores its generated id back into u.
func (s *SQLStore) CreateUser(ctx context.Context, u *model.User) error {
	res, err := s.q.ExecContext(ctx,
		"INSERT INTO users (email,login,name,birthday) VALUES (?,?,?,?)",
		u.Email, u.Login, u.Name, u.Birthday)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Conflict("user with email %q or login %q already exists", u.Email, u.Login)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	if u.Friends == nil {
		u.Friends = map[uint64]model.FriendshipStatus{}
	}
	return nil
}

// UpdateUser overwrites the stored profile of u.ID.  Friendships are
// left untouched.
func (s *SQLStore) UpdateUser(ctx context.Context, u *model.User) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE users SET email=?, login=?, name=?, birthday=? WHERE user_id=?",
		u.Email, u.Login, u.Name, u.Birthday, u.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Conflict("user with email %q or login %q already exists", u.Email, u.Login)
		}
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return s.ensureAffected(ctx, res, "users", "user_id", "user", u.ID)
}

// ensureAffected turns a zero-row UPDATE into a NotFoundError when the
// row really is missing.  MySQL reports zero affected rows for updates
// that change nothing, so existence is checked separately.
func (s *SQLStore) ensureAffected(ctx context.Context, res sql.Result, table, key, entity string, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = s.q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE "+key+"=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFound(entity, id)
	}
	return err
}
