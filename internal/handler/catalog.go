package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/filmorate/internal/service"
)

// CatalogHandler serves the read-only /genres and /mpa lookups.
type CatalogHandler struct {
	catalog *service.CatalogService
	timeout time.Duration
}

func NewCatalogHandler(catalog *service.CatalogService, timeout time.Duration) *CatalogHandler {
	if catalog == nil {
		panic("nil catalog service passed to NewCatalogHandler")
	}
	return &CatalogHandler{catalog: catalog, timeout: timeout}
}

func (h *CatalogHandler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

// Genres handles GET /genres.
func (h *CatalogHandler) Genres(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	genres, err := h.catalog.Genres(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, genres)
}

// Genre handles GET /genres/:id.
func (h *CatalogHandler) Genre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	g, err := h.catalog.Genre(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

// Ratings handles GET /mpa.
func (h *CatalogHandler) Ratings(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	ratings, err := h.catalog.Ratings(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ratings)
}

// Rating handles GET /mpa/:id.
func (h *CatalogHandler) Rating(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	r, err := h.catalog.Rating(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}
