// Package repository contains data access logic separated from HTTP
// handlers and services.  Store is the single storage abstraction the
// services depend on; SQLStore is its database/sql implementation used
// with MySQL in production and SQLite in tests.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// Store is the persistence gateway consumed by the service layer.
// Missing rows are reported as *model.NotFoundError and duplicate keys
// as *model.ConflictError.
type Store interface {
	GetUser(ctx context.Context, id uint64) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListUsersByIDs(ctx context.Context, ids []uint64) ([]*model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, u *model.User) error

	GetFilm(ctx context.Context, id uint64) (*model.Film, error)
	ListFilms(ctx context.Context) ([]*model.Film, error)
	CreateFilm(ctx context.Context, f *model.Film) error
	UpdateFilm(ctx context.Context, f *model.Film) error

	ListGenres(ctx context.Context) ([]model.Genre, error)
	GetGenre(ctx context.Context, id uint64) (*model.Genre, error)
	ListRatings(ctx context.Context) ([]model.Rating, error)
	GetRating(ctx context.Context, id uint64) (*model.Rating, error)

	// GetFriendship returns the status of the owner→target edge and
	// whether the edge exists.
	GetFriendship(ctx context.Context, ownerID, targetID uint64) (model.FriendshipStatus, bool, error)
	SaveFriendship(ctx context.Context, ownerID, targetID uint64, status model.FriendshipStatus) error
	// DeleteFriendship removes the owner→target edge and reports whether
	// it existed.
	DeleteFriendship(ctx context.Context, ownerID, targetID uint64) (bool, error)

	HasLike(ctx context.Context, filmID, userID uint64) (bool, error)
	AddLike(ctx context.Context, filmID, userID uint64) error
	// RemoveLike deletes a like and reports whether it existed.
	RemoveLike(ctx context.Context, filmID, userID uint64) (bool, error)

	// WithTx runs fn with a Store bound to a single transaction.  The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Nested calls reuse the outer transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Store over a database/sql connection pool.
type SQLStore struct {
	db   *sql.DB // db is the underlying connection pool
	q    querier // q is db, or the open transaction inside WithTx
	inTx bool
}

// NewSQLStore constructs a SQLStore with the provided DB handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

// DB exposes the underlying pool, e.g. for health checks.
func (s *SQLStore) DB() *sql.DB { return s.db }

// WithTx implements Store.
func (s *SQLStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&SQLStore{db: s.db, q: tx, inTx: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
