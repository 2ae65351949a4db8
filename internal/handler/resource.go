package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/service"
)

// CatalogService covers resources and their association with spaces.
type CatalogService interface {
	CreateResource(ctx context.Context, actor model.Actor, in service.ResourceInput) (model.Resource, error)
	ListResources(ctx context.Context) ([]model.Resource, error)
	GetResource(ctx context.Context, id uint64) (model.Resource, error)
	UpdateResource(ctx context.Context, actor model.Actor, id uint64, patch service.ResourcePatch) (model.Resource, error)
	DeleteResource(ctx context.Context, actor model.Actor, id uint64) error
	SetSpaceResource(ctx context.Context, actor model.Actor, sr model.SpaceResource) (bool, error)
	ListSpaceResources(ctx context.Context, spaceID uint64) ([]model.SpaceResource, error)
	RemoveSpaceResource(ctx context.Context, actor model.Actor, spaceID, resourceID uint64) error
}

// CatalogHandler serves /api/resources and /api/space-resources.
type CatalogHandler struct {
	Catalog CatalogService
}

func NewCatalogHandler(cs CatalogService) *CatalogHandler {
	return &CatalogHandler{Catalog: cs}
}

type spaceResourceReq struct {
	SpaceID    uint64 `json:"space_id" validate:"required"`
	ResourceID uint64 `json:"resource_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
}

func (h *CatalogHandler) CreateResource(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var in service.ResourceInput
	if err := bind(c, &in); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Catalog.CreateResource(ctx, actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *CatalogHandler) ListResources(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Catalog.ListResources(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetResource(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Catalog.GetResource(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *CatalogHandler) UpdateResource(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var patch service.ResourcePatch
	if err := decodeStrict(c, &patch); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	r, err := h.Catalog.UpdateResource(ctx, actor, id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *CatalogHandler) DeleteResource(c echo.Context) error {
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
	if err := h.Catalog.DeleteResource(ctx, actor, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSpaceResource handles POST /api/space-resources: 201 when the
// resource is newly attached, 200 when only the quantity changed.
func (h *CatalogHandler) SetSpaceResource(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req spaceResourceReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	sr := model.SpaceResource{SpaceID: req.SpaceID, ResourceID: req.ResourceID, Quantity: req.Quantity}
	ctx, cancel := requestContext(c)
	defer cancel()
	created, err := h.Catalog.SetSpaceResource(ctx, actor, sr)
	if err != nil {
		return respondError(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, sr)
}

func (h *CatalogHandler) ListSpaceResources(c echo.Context) error {
	spaceID, err := pathID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	out, err := h.Catalog.ListSpaceResources(ctx, spaceID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) RemoveSpaceResource(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	spaceID, err := pathID(c, "spaceId")
	if err != nil {
		return respondError(c, err)
	}
	resourceID, err := pathID(c, "resourceId")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Catalog.RemoveSpaceResource(ctx, actor, spaceID, resourceID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
