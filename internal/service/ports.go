package service

import (
	"context"
	"time"

	"github.com/iliyamo/space-reservation/internal/model"
)

// Repository ports of the plumbing services.  The MySQL repositories in
// internal/repository satisfy them.

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	ApplyPatches(ctx context.Context, patches []model.UserPatch) error
}

type TokenRepository interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	FindRefresh(ctx context.Context, tokenHash string) (model.RefreshToken, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type SpaceRepository interface {
	Create(ctx context.Context, sp *model.Space) error
	GetByID(ctx context.Context, id uint64) (model.Space, error)
	List(ctx context.Context) ([]model.Space, error)
	Update(ctx context.Context, sp model.Space) error
	DeleteIfIdle(ctx context.Context, id uint64) error
}

type ResourceRepository interface {
	Create(ctx context.Context, r *model.Resource) error
	GetByID(ctx context.Context, id uint64) (model.Resource, error)
	List(ctx context.Context) ([]model.Resource, error)
	Update(ctx context.Context, r model.Resource) error
	Delete(ctx context.Context, id uint64) error
}

type SpaceResourceRepository interface {
	Upsert(ctx context.Context, sr model.SpaceResource) (bool, error)
	ListBySpace(ctx context.Context, spaceID uint64) ([]model.SpaceResource, error)
	Delete(ctx context.Context, spaceID, resourceID uint64) error
}
