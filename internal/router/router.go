// Package router wires middleware, handlers and routes onto an Echo
// instance.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/config"
	"github.com/iliyamo/filmorate/internal/handler"
	"github.com/iliyamo/filmorate/internal/middleware"
	"github.com/iliyamo/filmorate/internal/repository"
	"github.com/iliyamo/filmorate/internal/service"
)

// Deps carries everything New needs.  Events, Redis and DB may be nil:
// without events nothing is published, without Redis rate limiting is
// off and without DB the health check only reports the process is up.
type Deps struct {
	Store          repository.Store
	Events         service.EventPublisher
	Logger         *zap.Logger
	Redis          *redis.Client
	RateLimit      config.RateLimitConfig
	DB             handler.Pinger
	RequestTimeout time.Duration
}

// New builds the HTTP server with all routes registered.
func New(d Deps) *echo.Echo {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	// Order matters: Logger and Metrics observe the final status, including
	// the 500 that Recovery produces.
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(log.Named("http")))
	e.Use(middleware.Metrics())
	e.Use(middleware.Recovery(log))

	e.GET("/healthz", handler.Health(d.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("", middleware.NewTokenBucket(d.RateLimit, d.Redis, log))

	films := handler.NewFilmHandler(service.NewFilmService(d.Store, d.Events, log), timeout)
	users := handler.NewUserHandler(
		service.NewUserService(d.Store, log),
		service.NewFriendshipEngine(d.Store, d.Events, log),
		timeout,
	)
	catalog := handler.NewCatalogHandler(service.NewCatalogService(d.Store), timeout)

	RegisterFilms(api, films)
	RegisterUsers(api, users)
	RegisterCatalog(api, catalog)
	return e
}

// RegisterFilms maps the /films endpoints.
func RegisterFilms(g *echo.Group, h *handler.FilmHandler) {
	g.GET("/films", h.List)
	g.POST("/films", h.Create)
	g.PUT("/films", h.Update)
	// static segment wins over :id in echo's router
	g.GET("/films/popular", h.Popular)
	g.GET("/films/:id", h.Get)
	g.PUT("/films/:id/like/:userId", h.AddLike)
	g.DELETE("/films/:id/like/:userId", h.RemoveLike)
}

// RegisterUsers maps the /users and friendship endpoints.
func RegisterUsers(g *echo.Group, h *handler.UserHandler) {
	g.GET("/users", h.List)
	g.POST("/users", h.Create)
	g.PUT("/users", h.Update)
	g.GET("/users/:id", h.Get)
	g.GET("/users/:id/friends", h.Friends)
	g.GET("/users/:id/friends/common/:otherId", h.CommonFriends)
	g.PUT("/users/:id/friends/:friendId", h.AddFriend)
	g.DELETE("/users/:id/friends/:friendId", h.RemoveFriend)
}

// RegisterCatalog maps the genre and MPA rating lookups.
func RegisterCatalog(g *echo.Group, h *handler.CatalogHandler) {
	g.GET("/genres", h.Genres)
	g.GET("/genres/:id", h.Genre)
	g.GET("/mpa", h.Ratings)
	g.GET("/mpa/:id", h.Rating)
}
