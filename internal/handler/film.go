package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/service"
)

// FilmHandler serves /films.
type FilmHandler struct {
	films   *service.FilmService
	timeout time.Duration // upper bound for the DB work of one request
}

// NewFilmHandler panics if films is nil.
func NewFilmHandler(films *service.FilmService, timeout time.Duration) *FilmHandler {
	if films == nil {
		panic("nil film service passed to NewFilmHandler")
	}
	return &FilmHandler{films: films, timeout: timeout}
}

func (h *FilmHandler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

// List handles GET /films.
func (h *FilmHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	films, err := h.films.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, films)
}

// Get handles GET /films/:id.
func (h *FilmHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	f, err := h.films.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, f)
}

// Create handles POST /films.  The id in the body, if any, is ignored.
func (h *FilmHandler) Create(c echo.Context) error {
	var f model.Film
	if err := bindJSON(c, &f); err != nil {
		return err
	}
	f.ID = 0
	ctx, cancel := h.ctx(c)
	defer cancel()
	created, err := h.films.Add(ctx, &f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

// Update handles PUT /films; the body carries the id.
func (h *FilmHandler) Update(c echo.Context) error {
	var f model.Film
	if err := bindJSON(c, &f); err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	updated, err := h.films.Update(ctx, &f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// AddLike handles PUT /films/:id/like/:userId.
func (h *FilmHandler) AddLike(c echo.Context) error {
	filmID, userID, err := likeParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.films.AddLike(ctx, filmID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// RemoveLike handles DELETE /films/:id/like/:userId.
func (h *FilmHandler) RemoveLike(c echo.Context) error {
	filmID, userID, err := likeParams(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.films.RemoveLike(ctx, filmID, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Popular handles GET /films/popular?size=N.  size defaults to 10.
func (h *FilmHandler) Popular(c echo.Context) error {
	size := service.DefaultPopularSize
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return model.Invalid("size", "size must be an integer")
		}
		size = n
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	films, err := h.films.Popular(ctx, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, films)
}

func likeParams(c echo.Context) (filmID, userID uint64, err error) {
	if filmID, err = pathID(c, "id"); err != nil {
		return 0, 0, err
	}
	if userID, err = pathID(c, "userId"); err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}
