package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/service"
)

type SpaceService interface {
	Create(ctx context.Context, actor model.Actor, in service.CreateSpaceInput) (model.SpaceDetail, error)
	List(ctx context.Context) ([]model.SpaceDetail, error)
	Get(ctx context.Context, id uint64) (model.SpaceDetail, error)
	Update(ctx context.Context, actor model.Actor, id uint64, patch service.SpacePatch) (model.SpaceDetail, error)
	Delete(ctx context.Context, actor model.Actor, id uint64) error
}

// SpaceHandler serves /api/spaces.
type SpaceHandler struct {
	Spaces SpaceService
}

func NewSpaceHandler(s SpaceService) *SpaceHandler {
	return &SpaceHandler{Spaces: s}
}

func (h *SpaceHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.CreateSpaceInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sp, err := h.Spaces.Create(ctx, actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *SpaceHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Spaces.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SpaceHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sp, err := h.Spaces.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sp)
}

// Update handles PUT /api/spaces/:id. Only the fields present in the body
// change.
func (h *SpaceHandler) Update(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var patch service.SpacePatch
	if err := decodeStrict(c, &patch); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	sp, err := h.Spaces.Update(ctx, actor, id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sp)
}

// Delete handles DELETE /api/spaces/:id. A space with pending or
// confirmed reservations is refused with 409.
func (h *SpaceHandler) Delete(c echo.Context) error {
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
	if err := h.Spaces.Delete(ctx, actor, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
