package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
)

func TestPatchUsersValidation(t *testing.T) {
	bogusRole := model.Role("owner")
	bogusStatus := model.UserStatus("banned")
	empty := ""
	tests := []struct {
		name    string
		actor   model.Actor
		patches []model.UserPatch
		want    apperr.Kind
	}{
		{"manager", manager, []model.UserPatch{{ID: 1, Name: ptr("x")}}, apperr.KindForbidden},
		{"empty batch", admin, nil, apperr.KindValidation},
		{"missing id", admin, []model.UserPatch{{Name: ptr("x")}}, apperr.KindValidation},
		{"no fields", admin, []model.UserPatch{{ID: 1}}, apperr.KindValidation},
		{"duplicate id", admin, []model.UserPatch{{ID: 1, Name: ptr("a")}, {ID: 1, Name: ptr("b")}}, apperr.KindValidation},
		{"bad role", admin, []model.UserPatch{{ID: 1, Role: &bogusRole}}, apperr.KindValidation},
		{"bad status", admin, []model.UserPatch{{ID: 1, Status: &bogusStatus}}, apperr.KindValidation},
		{"blank name", admin, []model.UserPatch{{ID: 1, Name: &empty}}, apperr.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{}
			err := NewUserService(users, zap.NewNop()).Patch(context.Background(), tt.actor, tt.patches)
			requireKind(t, err, tt.want)
			users.AssertNotCalled(t, "ApplyPatches", mock.Anything, mock.Anything)
		})
	}
}

func TestPatchUsersApplies(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{}
	svc := NewUserService(users, zap.NewNop())
	patches := []model.UserPatch{{ID: 1, Role: ptr(model.RoleManager)}, {ID: 2, Status: ptr(model.UserSuspended)}}

	users.On("ApplyPatches", ctx, patches).Return(nil).Once()
	require.NoError(t, svc.Patch(ctx, admin, patches))

	users.On("ApplyPatches", ctx, patches).Return(fmt.Errorf("user 2: %w", repository.ErrNotFound)).Once()
	err := svc.Patch(ctx, admin, patches)
	requireKind(t, err, apperr.KindNotFound)
	assert.Contains(t, apperr.As(err).Message, "user 2")
}

func TestUserReads(t *testing.T) {
	ctx := context.Background()
	users := &mockUserRepo{}
	svc := NewUserService(users, zap.NewNop())

	users.On("GetByID", ctx, user1.ID).Return(model.User{ID: user1.ID, Name: "Ana"}, nil)
	me, err := svc.Me(ctx, user1)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)

	_, err = svc.List(ctx, user1)
	requireKind(t, err, apperr.KindForbidden)
	_, err = svc.Get(ctx, manager, user1.ID)
	requireKind(t, err, apperr.KindForbidden)

	users.On("List", ctx).Return([]model.User{{ID: 1}, {ID: 2}}, nil)
	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
