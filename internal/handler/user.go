package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/service"
)

// UserHandler serves /users and the friendship endpoints below it.
type UserHandler struct {
	users   *service.UserService
	friends *service.FriendshipEngine
	timeout time.Duration
}

// NewUserHandler panics if a dependency is nil.
func NewUserHandler(users *service.UserService, friends *service.FriendshipEngine, timeout time.Duration) *UserHandler {
	if users == nil || friends == nil {
		panic("nil service passed to NewUserHandler")
	}
	return &UserHandler{users: users, friends: friends, timeout: timeout}
}

func (h *UserHandler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}

// List handles GET /users.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()
	users, err := h.users.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	u, err := h.users.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Create handles POST /users.  Friends in the body are ignored.
func (h *UserHandler) Create(c echo.Context) error {
	var u model.User
	if err := bindJSON(c, &u); err != nil {
		return err
	}
	u.ID = 0
	u.Friends = nil
	ctx, cancel := h.ctx(c)
	defer cancel()
	created, err := h.users.Add(ctx, &u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

// Update handles PUT /users; the body carries the id.
func (h *UserHandler) Update(c echo.Context) error {
	var u model.User
	if err := bindJSON(c, &u); err != nil {
		return err
	}
	u.Friends = nil
	ctx, cancel := h.ctx(c)
	defer cancel()
	updated, err := h.users.Update(ctx, &u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// AddFriend handles PUT /users/:id/friends/:friendId.
func (h *UserHandler) AddFriend(c echo.Context) error {
	id, friendID, err := friendParams(c, "friendId")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.friends.AddFriend(ctx, id, friendID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// RemoveFriend handles DELETE /users/:id/friends/:friendId.
func (h *UserHandler) RemoveFriend(c echo.Context) error {
	id, friendID, err := friendParams(c, "friendId")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	if err := h.friends.RemoveFriend(ctx, id, friendID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Friends handles GET /users/:id/friends.
func (h *UserHandler) Friends(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	friends, err := h.friends.ListFriends(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, friends)
}

// CommonFriends handles GET /users/:id/friends/common/:otherId.
func (h *UserHandler) CommonFriends(c echo.Context) error {
	id, otherID, err := friendParams(c, "otherId")
	if err != nil {
		return err
	}
	ctx, cancel := h.ctx(c)
	defer cancel()
	common, err := h.friends.CommonFriends(ctx, id, otherID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, common)
}

func friendParams(c echo.Context, other string) (id, otherID uint64, err error) {
	if id, err = pathID(c, "id"); err != nil {
		return 0, 0, err
	}
	if otherID, err = pathID(c, other); err != nil {
		return 0, 0, err
	}
	return id, otherID, nil
}
