package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

const filmSelect = `SELECT f.film_id, f.name, f.description, f.release_date, f.duration, r.rating_id, r.name
FROM films f
JOIN ratings r ON r.rating_id = f.rating_id`

func scanFilm(row interface{ Scan(dest ...any) error }) (*model.Film, error) {
	var (
		f       model.Film
		release model.Date
		rating  model.Rating
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &release, &f.Duration, &rating.ID, &rating.Name); err != nil {
		return nil, err
	}
	f.ReleaseDate = &release
	f.Mpa = &rating
	f.Genres = []model.Genre{}
	f.Likes = []uint64{}
	return &f, nil
}

// GetFilm fetches a film with its rating, genres and likes.
func (s *SQLStore) GetFilm(ctx context.Context, id uint64) (*model.Film, error) {
	f, err := scanFilm(s.q.QueryRowContext(ctx, filmSelect+" WHERE f.film_id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFound("film", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get film %d: %w", id, err)
	}
	if err := s.attachFilmDetails(ctx, []*model.Film{f}); err != nil {
		return nil, err
	}
	return f, nil
}

// ListFilms returns every film ordered by id.
func (s *SQLStore) ListFilms(ctx context.Context) ([]*model.Film, error) {
	rows, err := s.q.QueryContext(ctx, filmSelect+" ORDER BY f.film_id")
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()
	films := []*model.Film{}
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachFilmDetails(ctx, films); err != nil {
		return nil, err
	}
	return films, nil
}

// attachFilmDetails loads genres and likes for the given films, one
// query each, ordered by id.
func (s *SQLStore) attachFilmDetails(ctx context.Context, films []*model.Film) error {
	if len(films) == 0 {
		return nil
	}
	byID := make(map[uint64]*model.Film, len(films))
	args := make([]any, 0, len(films))
	for _, f := range films {
		byID[f.ID] = f
		args = append(args, f.ID)
	}
	in := placeholders(len(args))

	rows, err := s.q.QueryContext(ctx, `SELECT fg.film_id, g.genre_id, g.name
FROM film_genres fg
JOIN genres g ON g.genre_id = fg.genre_id
WHERE fg.film_id IN (`+in+`)
ORDER BY fg.film_id, g.genre_id`, args...)
	if err != nil {
		return fmt.Errorf("load film genres: %w", err)
	}
	for rows.Next() {
		var (
			filmID uint64
			g      model.Genre
		)
		if err := rows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			rows.Close()
			return fmt.Errorf("scan film genre: %w", err)
		}
		if f, ok := byID[filmID]; ok {
			f.Genres = append(f.Genres, g)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.q.QueryContext(ctx,
		"SELECT film_id, user_id FROM likes WHERE film_id IN ("+in+") ORDER BY film_id, user_id", args...)
	if err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var filmID, userID uint64
		if err := rows.Scan(&filmID, &userID); err != nil {
			return fmt.Errorf("scan like: %w", err)
		}
		if f, ok := byID[filmID]; ok {
			f.Likes = append(f.Likes, userID)
		}
	}
	return rows.Err()
}

// CreateFilm inserts f and its genre links and stores the generated id
// back into f.  Callers run it inside WithTx so a failed genre insert
// does not leave a partial row.
func (s *SQLStore) CreateFilm(ctx context.Context, f *model.Film) error {
	res, err := s.q.ExecContext(ctx,
		"INSERT INTO films (name,description,release_date,duration,rating_id) VALUES (?,?,?,?,?)",
		f.Name, f.Description, f.ReleaseDate, f.Duration, f.Mpa.ID)
	if err != nil {
		return fmt.Errorf("insert film: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return s.insertFilmGenres(ctx, f)
}

// UpdateFilm overwrites the stored fields of f.ID and replaces its genre
// set.  Likes are left untouched.
func (s *SQLStore) UpdateFilm(ctx context.Context, f *model.Film) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE films SET name=?, description=?, release_date=?, duration=?, rating_id=? WHERE film_id=?",
		f.Name, f.Description, f.ReleaseDate, f.Duration, f.Mpa.ID, f.ID)
	if err != nil {
		return fmt.Errorf("update film %d: %w", f.ID, err)
	}
	if err := s.ensureAffected(ctx, res, "films", "film_id", "film", f.ID); err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx, "DELETE FROM film_genres WHERE film_id=?", f.ID); err != nil {
		return fmt.Errorf("clear film genres: %w", err)
	}
	return s.insertFilmGenres(ctx, f)
}

func (s *SQLStore) insertFilmGenres(ctx context.Context, f *model.Film) error {
	for _, gid := range f.GenreIDs() {
		if _, err := s.q.ExecContext(ctx,
			"INSERT INTO film_genres (film_id, genre_id) VALUES (?,?)", f.ID, gid); err != nil {
			return fmt.Errorf("insert film genre %d: %w", gid, err)
		}
	}
	return nil
}
