package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/repository"
	"github.com/iliyamo/filmorate/internal/testutil"
)

func newFilmService(t *testing.T) (*FilmService, *repository.SQLStore, *recordingPublisher) {
	store := testutil.NewStore(t)
	events := &recordingPublisher{}
	return NewFilmService(store, events, testutil.Logger(t)), store, events
}

func TestFilmService_AddResolvesReferences(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newFilmService(t)

	in := testutil.NewFilm("Up", 3, 1, 3)
	in.Mpa = &model.Rating{ID: 2}
	got, err := svc.Add(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "PG", got.Mpa.Name)
	assert.Equal(t, []model.Genre{{ID: 1, Name: "Комедия"}, {ID: 3, Name: "Мультфильм"}}, got.Genres)
	assert.Empty(t, got.Likes)

	again, err := svc.Get(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFilmService_AddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newFilmService(t)

	bad := testutil.NewFilm("")
	_, err := svc.Add(ctx, bad)
	assert.True(t, errors.Is(err, model.ErrValidation))

	noMpa := testutil.NewFilm("x")
	noMpa.Mpa = nil
	_, err = svc.Add(ctx, noMpa)
	assert.True(t, errors.Is(err, model.ErrMissingField))

	films, err := store.ListFilms(ctx)
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestFilmService_UnknownReferencesAreNotFound(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newFilmService(t)

	f := testutil.NewFilm("x")
	f.Mpa = &model.Rating{ID: 42}
	_, err := svc.Add(ctx, f)
	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "mpa", nf.Entity)

	_, err = svc.Add(ctx, testutil.NewFilm("y", 1, 77))
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Equal(t, "genre", nf.Entity)
	assert.EqualValues(t, 77, nf.ID)

	films, err := store.ListFilms(ctx)
	require.NoError(t, err)
	assert.Empty(t, films)
}

func TestFilmService_UpdateKeepsLikes(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newFilmService(t)
	f := testutil.MustCreateFilm(t, store, "Old", 1)
	u := testutil.MustCreateUser(t, store, "fan")
	require.NoError(t, svc.AddLike(ctx, f.ID, u.ID))

	upd := testutil.NewFilm("New", 2)
	upd.ID = f.ID
	got, err := svc.Update(ctx, upd)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, []model.Genre{{ID: 2, Name: "Драма"}}, got.Genres)
	assert.Equal(t, []uint64{u.ID}, got.Likes)
}

func TestFilmService_UpdateUnknownIsNotFound(t *testing.T) {
	svc, _, _ := newFilmService(t)
	f := testutil.NewFilm("ghost")
	f.ID = 9999
	_, err := svc.Update(context.Background(), f)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestFilmService_Likes(t *testing.T) {
	ctx := context.Background()
	svc, store, events := newFilmService(t)
	f := testutil.MustCreateFilm(t, store, "Film")
	u := testutil.MustCreateUser(t, store, "u")

	require.NoError(t, svc.AddLike(ctx, f.ID, u.ID))
	assert.True(t, errors.Is(svc.AddLike(ctx, f.ID, u.ID), model.ErrConflict))
	assert.True(t, errors.Is(svc.AddLike(ctx, f.ID, 999), model.ErrNotFound))
	assert.True(t, errors.Is(svc.AddLike(ctx, 999, u.ID), model.ErrNotFound))

	require.NoError(t, svc.RemoveLike(ctx, f.ID, u.ID))
	err := svc.RemoveLike(ctx, f.ID, u.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.EqualError(t, err, fmt.Sprintf("User %d has not liked film %d", u.ID, f.ID))

	assert.Equal(t, []queue.ActivityType{queue.LikeAdded, queue.LikeRemoved}, events.types())
}

func TestFilmService_Popular(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newFilmService(t)
	f1 := testutil.MustCreateFilm(t, store, "one")
	f2 := testutil.MustCreateFilm(t, store, "two")
	f3 := testutil.MustCreateFilm(t, store, "three")
	testutil.MustCreateFilm(t, store, "unliked")
	u1 := testutil.MustCreateUser(t, store, "u1")
	u2 := testutil.MustCreateUser(t, store, "u2")

	require.NoError(t, svc.AddLike(ctx, f1.ID, u1.ID))
	require.NoError(t, svc.AddLike(ctx, f2.ID, u1.ID))
	require.NoError(t, svc.AddLike(ctx, f2.ID, u2.ID))
	require.NoError(t, svc.AddLike(ctx, f3.ID, u2.ID))

	top, err := svc.Popular(ctx, DefaultPopularSize)
	require.NoError(t, err)
	assert.Equal(t, []uint64{f2.ID, f3.ID, f1.ID}, ids(top))

	top, err = svc.Popular(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{f2.ID}, ids(top))

	_, err = svc.Popular(ctx, 0)
	assert.True(t, errors.Is(err, model.ErrValidation))
}
