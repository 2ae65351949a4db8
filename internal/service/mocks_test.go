package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/space-reservation/internal/model"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepo) ApplyPatches(ctx context.Context, patches []model.UserPatch) error {
	return m.Called(ctx, patches).Error(0)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return m.Called(ctx, userID, tokenHash, exp).Error(0)
}

func (m *mockTokenRepo) FindRefresh(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *mockTokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockTokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return m.Called(ctx, userID).Error(0)
}

type mockSpaceRepo struct{ mock.Mock }

func (m *mockSpaceRepo) Create(ctx context.Context, sp *model.Space) error {
	return m.Called(ctx, sp).Error(0)
}

func (m *mockSpaceRepo) GetByID(ctx context.Context, id uint64) (model.Space, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Space), args.Error(1)
}

func (m *mockSpaceRepo) List(ctx context.Context) ([]model.Space, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Space), args.Error(1)
}

func (m *mockSpaceRepo) Update(ctx context.Context, sp model.Space) error {
	return m.Called(ctx, sp).Error(0)
}

func (m *mockSpaceRepo) DeleteIfIdle(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockResourceRepo struct{ mock.Mock }

func (m *mockResourceRepo) Create(ctx context.Context, r *model.Resource) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockResourceRepo) GetByID(ctx context.Context, id uint64) (model.Resource, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Resource), args.Error(1)
}

func (m *mockResourceRepo) List(ctx context.Context) ([]model.Resource, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Resource), args.Error(1)
}

func (m *mockResourceRepo) Update(ctx context.Context, r model.Resource) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockResourceRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type mockSpaceResourceRepo struct{ mock.Mock }

func (m *mockSpaceResourceRepo) Upsert(ctx context.Context, sr model.SpaceResource) (bool, error) {
	args := m.Called(ctx, sr)
	return args.Bool(0), args.Error(1)
}

func (m *mockSpaceResourceRepo) ListBySpace(ctx context.Context, spaceID uint64) ([]model.SpaceResource, error) {
	args := m.Called(ctx, spaceID)
	return args.Get(0).([]model.SpaceResource), args.Error(1)
}

func (m *mockSpaceResourceRepo) Delete(ctx context.Context, spaceID, resourceID uint64) error {
	return m.Called(ctx, spaceID, resourceID).Error(0)
}
