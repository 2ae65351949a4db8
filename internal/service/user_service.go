package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
)

// UserService serves the user administration endpoints.
type UserService struct {
	users UserRepository
	log   *zap.Logger
}

func NewUserService(users UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Me(ctx context.Context, actor model.Actor) (model.User, error) {
	if err := PolicyAuthenticated.Authorize(actor); err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return u, storeErr(s.log, "get user", err, "user %d not found", actor.ID)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if err := PolicyManageUsers.Authorize(actor); err != nil {
		return nil, err
	}
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, storeErr(s.log, "list users", err, "users not found")
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, actor model.Actor, id uint64) (model.User, error) {
	if err := PolicyManageUsers.Authorize(actor); err != nil {
		return model.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return u, storeErr(s.log, "get user", err, "user %d not found", id)
	}
	return u, nil
}

// Patch validates every patch and applies the batch atomically.  The batch
// is rejected as a whole if any entry is invalid or names an unknown user.
func (s *UserService) Patch(ctx context.Context, actor model.Actor, patches []model.UserPatch) error {
	if err := PolicyManageUsers.Authorize(actor); err != nil {
		return err
	}
	if len(patches) == 0 {
		return apperr.Validation("at least one user patch is required")
	}
	seen := make(map[uint64]bool, len(patches))
	for i, p := range patches {
		switch {
		case p.ID == 0:
			return apperr.Validation("patch %d: id is required", i)
		case seen[p.ID]:
			return apperr.Validation("patch %d: user %d listed twice", i, p.ID)
		case p.Empty():
			return apperr.Validation("patch %d: no fields to update", i)
		case p.Name != nil && strings.TrimSpace(*p.Name) == "":
			return apperr.Validation("patch %d: name must not be empty", i)
		case p.Role != nil && !p.Role.Valid():
			return apperr.Validation("patch %d: invalid role %q", i, *p.Role)
		case p.Status != nil && !p.Status.Valid():
			return apperr.Validation("patch %d: invalid status %q", i, *p.Status)
		}
		seen[p.ID] = true
	}
	if err := s.users.ApplyPatches(ctx, patches); err != nil {
		return storeErr(s.log, "patch users", err, "%v", err)
	}
	s.log.Info("users patched", zap.Int("count", len(patches)), zap.Uint64("actor_id", actor.ID))
	return nil
}
