package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/repository"
)

// FilmService manages the film catalog and user likes.
type FilmService struct {
	store  repository.Store
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewFilmService constructs a FilmService.  events may be nil.
func NewFilmService(store repository.Store, events EventPublisher, log *zap.Logger) *FilmService {
	return &FilmService{store: store, events: events, log: orNop(log).Named("films"), now: utcNow}
}

// Add validates and stores a new film and returns it as persisted, with
// rating and genre names resolved.
func (s *FilmService) Add(ctx context.Context, f *model.Film) (*model.Film, error) {
	if err := s.validate(f); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := checkReferences(ctx, tx, f); err != nil {
			return err
		}
		return tx.CreateFilm(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("film added", zap.Uint64("film_id", f.ID), zap.String("name", f.Name))
	return s.store.GetFilm(ctx, f.ID)
}

// Update replaces the mutable fields and genres of an existing film.
// Likes are kept.
func (s *FilmService) Update(ctx context.Context, f *model.Film) (*model.Film, error) {
	if err := s.validate(f); err != nil {
		return nil, err
	}
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetFilm(ctx, f.ID); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, f); err != nil {
			return err
		}
		return tx.UpdateFilm(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("film updated", zap.Uint64("film_id", f.ID))
	return s.store.GetFilm(ctx, f.ID)
}

// Get returns a single film.
func (s *FilmService) Get(ctx context.Context, id uint64) (*model.Film, error) {
	return s.store.GetFilm(ctx, id)
}

// List returns every film ordered by id.
func (s *FilmService) List(ctx context.Context) ([]*model.Film, error) {
	return s.store.ListFilms(ctx)
}

// AddLike records that userID likes filmID.  Liking twice is a
// ConflictError.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID uint64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetFilm(ctx, filmID); err != nil {
			return err
		}
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		return tx.AddLike(ctx, filmID, userID)
	})
	if err != nil {
		return err
	}
	metrics.LikeChanges.WithLabelValues("added").Inc()
	s.log.Info("like added", zap.Uint64("film_id", filmID), zap.Uint64("user_id", userID))
	emit(ctx, s.events, s.log, queue.ActivityEvent{
		Type: queue.LikeAdded, UserID: userID, FilmID: filmID, OccurredAt: s.now(),
	})
	return nil
}

// RemoveLike withdraws a like.  Removing a like that does not exist is a
// NotFoundError.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID uint64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.GetFilm(ctx, filmID); err != nil {
			return err
		}
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		removed, err := tx.RemoveLike(ctx, filmID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return &model.NotFoundError{
				Entity:  "like",
				Message: fmt.Sprintf("User %d has not liked film %d", userID, filmID),
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.LikeChanges.WithLabelValues("removed").Inc()
	s.log.Info("like removed", zap.Uint64("film_id", filmID), zap.Uint64("user_id", userID))
	emit(ctx, s.events, s.log, queue.ActivityEvent{
		Type: queue.LikeRemoved, UserID: userID, FilmID: filmID, OccurredAt: s.now(),
	})
	return nil
}

// Popular returns up to size liked films ranked by RankPopular.
func (s *FilmService) Popular(ctx context.Context, size int) ([]*model.Film, error) {
	if size <= 0 {
		return RankPopular(nil, size)
	}
	films, err := s.store.ListFilms(ctx)
	if err != nil {
		return nil, err
	}
	return RankPopular(films, size)
}

func (s *FilmService) validate(f *model.Film) error {
	if err := model.ValidateFilm(f); err != nil {
		s.log.Warn("film rejected", zap.Error(err))
		return err
	}
	return nil
}

// checkReferences verifies that the rating and every genre of f exist.
func checkReferences(ctx context.Context, tx repository.Store, f *model.Film) error {
	if _, err := tx.GetRating(ctx, f.Mpa.ID); err != nil {
		return err
	}
	for _, id := range f.GenreIDs() {
		if _, err := tx.GetGenre(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
