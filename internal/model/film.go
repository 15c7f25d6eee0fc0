package model

import (
	"sort"
	"time"
)

// EarliestReleaseDate is the day of the first public film screening.
// No film may be released before it.
var EarliestReleaseDate = NewDate(1895, time.December, 28)

// Genre is a read-only lookup row of the `genres` table.
type Genre struct {
	ID   uint64 `json:"id"`             // genres.genre_id
	Name string `json:"name,omitempty"` // genres.name
}

// Rating is an MPA content rating (G, PG-13, ...) stored in `ratings`.
type Rating struct {
	ID   uint64 `json:"id"`             // ratings.rating_id
	Name string `json:"name,omitempty"` // ratings.name
}

// Film is a catalog entry together with its rating, genres and the ids
// of the users who liked it.
//
// Fields:
//
//	ID          – films.film_id, assigned on creation and immutable.
//	Name        – non-blank, at most 50 characters.
//	Description – at most 200 characters.
//	ReleaseDate – not before EarliestReleaseDate.
//	Duration    – running time in minutes, positive.
//	Mpa         – rating reference, must exist.
//	Genres      – genre references ordered by id, each must exist.
//	Likes       – ids of liking users, ordered and unique.
type Film struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name" validate:"notblank,max=50"`
	Description string   `json:"description" validate:"max=200"`
	ReleaseDate *Date    `json:"releaseDate"`
	Duration    int      `json:"duration" validate:"gt=0"`
	Mpa         *Rating  `json:"mpa"`
	Genres      []Genre  `json:"genres"`
	Likes       []uint64 `json:"likes"`
}

var filmMessages = map[string]string{
	"name.notblank":   "Film name must not be blank",
	"name.max":        "Film name must be at most 50 symbols",
	"description.max": "Film description must be less than 200 symbols",
	"duration.gt":     "Film duration must be positive",
}

// ValidateFilm checks the field rules of a film.  Rating and genre
// existence are checked by the caller against the store.
func ValidateFilm(f *Film) error {
	if f.ReleaseDate == nil {
		return &MissingFieldError{Field: "releaseDate"}
	}
	if f.Mpa == nil {
		return &MissingFieldError{Field: "mpa"}
	}
	if err := validateStruct(f, filmMessages); err != nil {
		return err
	}
	if f.ReleaseDate.Before(EarliestReleaseDate.Time) {
		return Invalid("releaseDate", "Film release date must not be before "+EarliestReleaseDate.String())
	}
	return nil
}

// LikeCount returns the number of users who liked the film.
func (f *Film) LikeCount() int { return len(f.Likes) }

// HasLike reports whether userID is among the film's likes.
func (f *Film) HasLike(userID uint64) bool {
	for _, id := range f.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// GenreIDs returns the distinct genre ids of the film in ascending order.
func (f *Film) GenreIDs() []uint64 {
	seen := make(map[uint64]struct{}, len(f.Genres))
	ids := make([]uint64, 0, len(f.Genres))
	for _, g := range f.Genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
