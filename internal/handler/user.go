package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-reservation/internal/model"
)

type UserService interface {
	Me(ctx context.Context, actor model.Actor) (model.User, error)
	List(ctx context.Context, actor model.Actor) ([]model.User, error)
	Get(ctx context.Context, actor model.Actor, id uint64) (model.User, error)
	Patch(ctx context.Context, actor model.Actor, patches []model.UserPatch) error
}

// UserHandler serves /api/users.
type UserHandler struct {
	Users UserService
}

func NewUserHandler(u UserService) *UserHandler {
	return &UserHandler{Users: u}
}

func (h *UserHandler) Me(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.Users.Me(ctx, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) List(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Users.List(ctx, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) Get(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.Users.Get(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Patch handles PATCH /api/users with a JSON array of
// {id, name?, phone?, role?, status?}. Any other field rejects the batch.
func (h *UserHandler) Patch(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var patches []model.UserPatch
	if err := decodeStrict(c, &patches); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Users.Patch(ctx, actor, patches); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": len(patches)})
}
