package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
)

type ResourceInput struct {
	Name              string `json:"name" validate:"required,max=150"`
	Description       string `json:"description"`
	AvailableQuantity int    `json:"available_quantity" validate:"gte=0"`
}

type ResourcePatch struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	AvailableQuantity *int    `json:"available_quantity"`
}

// CatalogService manages resources and which spaces offer them.
type CatalogService struct {
	resources      ResourceRepository
	spaces         SpaceRepository
	spaceResources SpaceResourceRepository
	log            *zap.Logger
}

func NewCatalogService(resources ResourceRepository, spaces SpaceRepository, spaceResources SpaceResourceRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{resources: resources, spaces: spaces, spaceResources: spaceResources, log: log}
}

func (s *CatalogService) CreateResource(ctx context.Context, actor model.Actor, in ResourceInput) (model.Resource, error) {
	if err := PolicyManageResources.Authorize(actor); err != nil {
		return model.Resource{}, err
	}
	r := model.Resource{
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		AvailableQuantity: in.AvailableQuantity,
	}
	if err := validateResource(r); err != nil {
		return model.Resource{}, err
	}
	if err := s.resources.Create(ctx, &r); err != nil {
		return model.Resource{}, storeErr(s.log, "create resource", err, "resource not found")
	}
	return s.GetResource(ctx, r.ID)
}

func (s *CatalogService) ListResources(ctx context.Context) ([]model.Resource, error) {
	out, err := s.resources.List(ctx)
	if err != nil {
		return nil, storeErr(s.log, "list resources", err, "resources not found")
	}
	return out, nil
}

func (s *CatalogService) GetResource(ctx context.Context, id uint64) (model.Resource, error) {
	r, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return r, storeErr(s.log, "get resource", err, "resource %d not found", id)
	}
	return r, nil
}

func (s *CatalogService) UpdateResource(ctx context.Context, actor model.Actor, id uint64, patch ResourcePatch) (model.Resource, error) {
	if err := PolicyManageResources.Authorize(actor); err != nil {
		return model.Resource{}, err
	}
	r, err := s.GetResource(ctx, id)
	if err != nil {
		return r, err
	}
	if patch.Name != nil {
		r.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.AvailableQuantity != nil {
		r.AvailableQuantity = *patch.AvailableQuantity
	}
	if err := validateResource(r); err != nil {
		return model.Resource{}, err
	}
	if err := s.resources.Update(ctx, r); err != nil {
		return model.Resource{}, storeErr(s.log, "update resource", err, "resource %d not found", id)
	}
	return s.GetResource(ctx, id)
}

func (s *CatalogService) DeleteResource(ctx context.Context, actor model.Actor, id uint64) error {
	if err := PolicyManageResources.Authorize(actor); err != nil {
		return err
	}
	return storeErr(s.log, "delete resource", s.resources.Delete(ctx, id), "resource %d not found", id)
}

// SetSpaceResource adds a resource to a space or changes its quantity.
// created reports whether the association is new.
func (s *CatalogService) SetSpaceResource(ctx context.Context, actor model.Actor, sr model.SpaceResource) (created bool, err error) {
	if err := PolicyManageSpace.Authorize(actor); err != nil {
		return false, err
	}
	if sr.SpaceID == 0 || sr.ResourceID == 0 {
		return false, apperr.Validation("space_id and resource_id are required")
	}
	if sr.Quantity < 0 {
		return false, apperr.Validation("quantity must not be negative")
	}
	if err := s.authorizeSpace(ctx, actor, sr.SpaceID); err != nil {
		return false, err
	}
	if _, err := s.GetResource(ctx, sr.ResourceID); err != nil {
		return false, err
	}
	created, err = s.spaceResources.Upsert(ctx, sr)
	if err != nil {
		return false, storeErr(s.log, "set space resource", err, "space resource not found")
	}
	s.log.Info("space resource set",
		zap.Uint64("space_id", sr.SpaceID), zap.Uint64("resource_id", sr.ResourceID),
		zap.Int("quantity", sr.Quantity), zap.Bool("created", created))
	return created, nil
}

func (s *CatalogService) ListSpaceResources(ctx context.Context, spaceID uint64) ([]model.SpaceResource, error) {
	if _, err := s.spaces.GetByID(ctx, spaceID); err != nil {
		return nil, storeErr(s.log, "get space", err, "space %d not found", spaceID)
	}
	out, err := s.spaceResources.ListBySpace(ctx, spaceID)
	if err != nil {
		return nil, storeErr(s.log, "list space resources", err, "space %d not found", spaceID)
	}
	return out, nil
}

func (s *CatalogService) RemoveSpaceResource(ctx context.Context, actor model.Actor, spaceID, resourceID uint64) error {
	if err := PolicyManageSpace.Authorize(actor); err != nil {
		return err
	}
	if err := s.authorizeSpace(ctx, actor, spaceID); err != nil {
		return err
	}
	err := s.spaceResources.Delete(ctx, spaceID, resourceID)
	return storeErr(s.log, "remove space resource", err, "resource %d is not attached to space %d", resourceID, spaceID)
}

func (s *CatalogService) authorizeSpace(ctx context.Context, actor model.Actor, spaceID uint64) error {
	sp, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return storeErr(s.log, "get space", err, "space %d not found", spaceID)
	}
	return PolicyManageSpace.AuthorizeOn(actor, SpaceSubject(sp))
}

func validateResource(r model.Resource) error {
	if r.Name == "" {
		return apperr.Validation("name is required")
	}
	if r.AvailableQuantity < 0 {
		return apperr.Validation("available_quantity must not be negative")
	}
	return nil
}
