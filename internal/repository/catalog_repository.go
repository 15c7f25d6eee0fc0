package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// ListGenres returns every genre ordered by id.
func (s *SQLStore) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT genre_id, name FROM genres ORDER BY genre_id")
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()
	out := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGenre fetches a single genre.
func (s *SQLStore) GetGenre(ctx context.Context, id uint64) (*model.Genre, error) {
	var g model.Genre
	err := s.q.QueryRowContext(ctx, "SELECT genre_id, name FROM genres WHERE genre_id=? LIMIT 1", id).
		Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFound("genre", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get genre %d: %w", id, err)
	}
	return &g, nil
}

// ListRatings returns every MPA rating ordered by id.
func (s *SQLStore) ListRatings(ctx context.Context) ([]model.Rating, error) {
	rows, err := s.q.QueryContext(ctx, "SELECT rating_id, name FROM ratings ORDER BY rating_id")
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()
	out := []model.Rating{}
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRating fetches a single MPA rating.
func (s *SQLStore) GetRating(ctx context.Context, id uint64) (*model.Rating, error) {
	var r model.Rating
	err := s.q.QueryRowContext(ctx, "SELECT rating_id, name FROM ratings WHERE rating_id=? LIMIT 1", id).
		Scan(&r.ID, &r.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFound("mpa", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get rating %d: %w", id, err)
	}
	return &r, nil
}
