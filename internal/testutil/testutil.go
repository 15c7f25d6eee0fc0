// Package testutil provides an in-memory SQLite store and a test logger
// for package tests.
package testutil

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/iliyamo/filmorate/internal/database"
	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/repository"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

var dbSeq atomic.Int64

// OpenDB opens a fresh, migrated in-memory SQLite database that is closed
// when the test ends.  The pool holds a single connection so every query
// sees the same database.
func OpenDB(t testing.TB) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:filmorate_%d?mode=memory&cache=private&_foreign_keys=1", dbSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, database.Migrate(ctx, db, sqliteSchema))
	return db
}

// NewStore returns a SQLStore backed by OpenDB.
func NewStore(t testing.TB) *repository.SQLStore {
	t.Helper()
	return repository.NewSQLStore(OpenDB(t))
}

// Logger returns a zap logger that writes through t.Log.
func Logger(t testing.TB) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
}

// Clock returns a fixed time source for services that check dates.
func Clock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// NewUser builds a valid user whose email and login derive from login.
func NewUser(login string) *model.User {
	b := model.NewDate(1990, time.March, 15)
	return &model.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: &b,
	}
}

// NewFilm builds a valid film rated G.
func NewFilm(name string, genres ...uint64) *model.Film {
	d := model.NewDate(2001, time.September, 11)
	f := &model.Film{
		Name:        name,
		Description: name + " description",
		ReleaseDate: &d,
		Duration:    100,
		Mpa:         &model.Rating{ID: 1},
	}
	for _, id := range genres {
		f.Genres = append(f.Genres, model.Genre{ID: id})
	}
	return f
}

// MustCreateUser inserts a user directly through the store.
func MustCreateUser(t testing.TB, s repository.Store, login string) *model.User {
	t.Helper()
	u := NewUser(login)
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

// MustCreateFilm inserts a film directly through the store.
func MustCreateFilm(t testing.TB, s repository.Store, name string, genres ...uint64) *model.Film {
	t.Helper()
	f := NewFilm(name, genres...)
	require.NoError(t, s.WithTx(context.Background(), func(tx repository.Store) error {
		return tx.CreateFilm(context.Background(), f)
	}))
	return f
}
