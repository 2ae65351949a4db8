package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
)

// CreateSpaceInput is the body of a space creation request.
type CreateSpaceInput struct {
	Name        string             `json:"name" validate:"required,max=150"`
	Type        string             `json:"type" validate:"required,max=60"`
	Capacity    int                `json:"capacity" validate:"required,gt=0"`
	Price       decimal.Decimal    `json:"price"`
	Description string             `json:"description"`
	ImageURL    string             `json:"image_url" validate:"omitempty,url"`
	ManagerID   *uint64            `json:"manager_id"`
	IsAvailable *bool              `json:"is_available"`
	Status      *model.SpaceStatus `json:"status"`
}

// SpacePatch lists the fields that may change on a space.  Nil fields are
// left untouched.
type SpacePatch struct {
	Name        *string            `json:"name"`
	Type        *string            `json:"type"`
	Capacity    *int               `json:"capacity"`
	Price       *decimal.Decimal   `json:"price"`
	Description *string            `json:"description"`
	ImageURL    *string            `json:"image_url"`
	ManagerID   *uint64            `json:"manager_id"`
	IsAvailable *bool              `json:"is_available"`
	Status      *model.SpaceStatus `json:"status"`
}

// SpaceService manages spaces.  Writes follow the space ownership rule: an
// admin, or the manager the space belongs to.
type SpaceService struct {
	spaces    SpaceRepository
	users     UserRepository
	resources SpaceResourceRepository
	log       *zap.Logger
}

func NewSpaceService(spaces SpaceRepository, users UserRepository, resources SpaceResourceRepository, log *zap.Logger) *SpaceService {
	return &SpaceService{spaces: spaces, users: users, resources: resources, log: log}
}

// Create adds a space.  A manager always becomes the manager of the spaces
// they create; an admin may name any manager or admin user.
func (s *SpaceService) Create(ctx context.Context, actor model.Actor, in CreateSpaceInput) (model.SpaceDetail, error) {
	if err := PolicyCreateSpace.Authorize(actor); err != nil {
		return model.SpaceDetail{}, err
	}
	sp := model.Space{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.TrimSpace(in.Type),
		Capacity:    in.Capacity,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Status:      model.SpaceActive,
	}
	if in.IsAvailable != nil {
		sp.IsAvailable = *in.IsAvailable
	}
	if in.Status != nil {
		sp.Status = *in.Status
	}
	if err := validateSpace(sp); err != nil {
		return model.SpaceDetail{}, err
	}

	switch {
	case actor.Role == model.RoleManager:
		id := actor.ID
		sp.ManagerID = &id
	case in.ManagerID != nil:
		if err := s.checkManager(ctx, *in.ManagerID); err != nil {
			return model.SpaceDetail{}, err
		}
		sp.ManagerID = in.ManagerID
	}

	if err := s.spaces.Create(ctx, &sp); err != nil {
		return model.SpaceDetail{}, storeErr(s.log, "create space", err, "space not found")
	}
	s.log.Info("space created", zap.Uint64("space_id", sp.ID), zap.Uint64("actor_id", actor.ID))
	return s.Get(ctx, sp.ID)
}

// List returns every space with its manager and resources.
func (s *SpaceService) List(ctx context.Context) ([]model.SpaceDetail, error) {
	spaces, err := s.spaces.List(ctx)
	if err != nil {
		return nil, storeErr(s.log, "list spaces", err, "spaces not found")
	}
	out := make([]model.SpaceDetail, 0, len(spaces))
	for _, sp := range spaces {
		d, err := s.detail(ctx, sp)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *SpaceService) Get(ctx context.Context, id uint64) (model.SpaceDetail, error) {
	sp, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return model.SpaceDetail{}, storeErr(s.log, "get space", err, "space %d not found", id)
	}
	return s.detail(ctx, sp)
}

// Update applies patch.  Only an admin may reassign the manager.
func (s *SpaceService) Update(ctx context.Context, actor model.Actor, id uint64, patch SpacePatch) (model.SpaceDetail, error) {
	sp, err := s.authorizedSpace(ctx, actor, id)
	if err != nil {
		return model.SpaceDetail{}, err
	}
	if patch.ManagerID != nil && actor.Role != model.RoleAdmin {
		return model.SpaceDetail{}, apperr.Forbidden("only an admin may reassign the manager of a space")
	}

	if patch.Name != nil {
		sp.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		sp.Type = strings.TrimSpace(*patch.Type)
	}
	if patch.Capacity != nil {
		sp.Capacity = *patch.Capacity
	}
	if patch.Price != nil {
		sp.Price = *patch.Price
	}
	if patch.Description != nil {
		sp.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		sp.ImageURL = *patch.ImageURL
	}
	if patch.IsAvailable != nil {
		sp.IsAvailable = *patch.IsAvailable
	}
	if patch.Status != nil {
		sp.Status = *patch.Status
	}
	if err := validateSpace(sp); err != nil {
		return model.SpaceDetail{}, err
	}
	if patch.ManagerID != nil {
		if err := s.checkManager(ctx, *patch.ManagerID); err != nil {
			return model.SpaceDetail{}, err
		}
		sp.ManagerID = patch.ManagerID
	}

	if err := s.spaces.Update(ctx, sp); err != nil {
		return model.SpaceDetail{}, storeErr(s.log, "update space", err, "space %d not found", id)
	}
	s.log.Info("space updated", zap.Uint64("space_id", id), zap.Uint64("actor_id", actor.ID))
	return s.Get(ctx, id)
}

// Delete removes a space that has never been reserved.  Reservations are kept
// in every state, so any reservation on the space makes the delete a conflict.
func (s *SpaceService) Delete(ctx context.Context, actor model.Actor, id uint64) error {
	if _, err := s.authorizedSpace(ctx, actor, id); err != nil {
		return err
	}
	err := s.spaces.DeleteIfIdle(ctx, id)
	if errors.Is(err, repository.ErrConflict) {
		return apperr.Conflict("space %d has reservations and cannot be deleted", id)
	}
	if err != nil {
		return storeErr(s.log, "delete space", err, "space %d not found", id)
	}
	s.log.Info("space deleted", zap.Uint64("space_id", id), zap.Uint64("actor_id", actor.ID))
	return nil
}

// authorizedSpace loads the space and applies PolicyManageSpace to it.
func (s *SpaceService) authorizedSpace(ctx context.Context, actor model.Actor, id uint64) (model.Space, error) {
	if err := PolicyManageSpace.Authorize(actor); err != nil {
		return model.Space{}, err
	}
	sp, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return sp, storeErr(s.log, "get space", err, "space %d not found", id)
	}
	if err := PolicyManageSpace.AuthorizeOn(actor, SpaceSubject(sp)); err != nil {
		return sp, err
	}
	return sp, nil
}

// checkManager verifies that id names a manager or admin user.
func (s *SpaceService) checkManager(ctx context.Context, id uint64) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return storeErr(s.log, "get manager", err, "manager %d not found", id)
	}
	if !u.Role.IsStaff() {
		return apperr.Validation("user %d is not a manager", id)
	}
	return nil
}

func (s *SpaceService) detail(ctx context.Context, sp model.Space) (model.SpaceDetail, error) {
	d := model.SpaceDetail{Space: sp}
	if sp.ManagerID != nil {
		u, err := s.users.GetByID(ctx, *sp.ManagerID)
		switch {
		case err == nil:
			summary := u.Summary()
			d.Manager = &summary
		case !errors.Is(err, repository.ErrNotFound):
			return d, storeErr(s.log, "get manager", err, "manager not found")
		}
	}
	res, err := s.resources.ListBySpace(ctx, sp.ID)
	if err != nil {
		return d, storeErr(s.log, "list space resources", err, "space %d not found", sp.ID)
	}
	d.Resources = res
	return d, nil
}

func validateSpace(sp model.Space) error {
	switch {
	case sp.Name == "" || sp.Type == "":
		return apperr.Validation("name and type are required")
	case sp.Capacity <= 0:
		return apperr.Validation("capacity must be greater than 0")
	case sp.Price.IsNegative():
		return apperr.Validation("price must not be negative")
	case !sp.Status.Valid():
		return apperr.Validation("invalid space status %q", sp.Status)
	}
	return nil
}
