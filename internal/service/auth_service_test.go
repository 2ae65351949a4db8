package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
	"github.com/iliyamo/space-reservation/internal/utils"
)

func newAuth() (*AuthService, *mockUserRepo, *mockTokenRepo) {
	users, tokens := &mockUserRepo{}, &mockTokenRepo{}
	cfg := AuthConfig{JWTSecret: "secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return NewAuthService(cfg, users, tokens, zap.NewNop()), users, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to regular", func(t *testing.T) {
		svc, users, _ := newAuth()
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleRegular && u.Status == model.UserActive && utils.VerifyPassword(u.PasswordHash, "hunter22")
		})).Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 3 }).Return(nil)
		users.On("GetByID", ctx, uint64(3)).Return(model.User{ID: 3, Role: model.RoleRegular}, nil)

		u, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.Equal(t, uint64(3), u.ID)
	})

	t.Run("admin cannot self-register", func(t *testing.T) {
		svc, _, _ := newAuth()
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "hunter22", Role: model.RoleAdmin})
		requireKind(t, err, apperr.KindForbidden)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, users, _ := newAuth()
		users.On("Create", ctx, mock.Anything).Return(repository.ErrEmailExists)
		_, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "hunter22"})
		requireKind(t, err, apperr.KindConflict)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := utils.HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("issues a token pair", func(t *testing.T) {
		svc, users, tokens := newAuth()
		users.On("GetByEmail", ctx, "ana@example.com").Return(model.User{ID: 3, PasswordHash: hash, Role: model.RoleManager, Status: model.UserActive}, nil)
		tokens.On("StoreRefresh", ctx, uint64(3), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)

		sess, err := svc.Login(ctx, "ana@example.com", "hunter22")
		require.NoError(t, err)
		actor, err := utils.ParseAccessToken("secret", sess.Access.Token)
		require.NoError(t, err)
		assert.Equal(t, model.Actor{ID: 3, Role: model.RoleManager}, actor)
		assert.NotEmpty(t, sess.Refresh.Raw)
		tokens.AssertCalled(t, "StoreRefresh", ctx, uint64(3), utils.HashRefreshRaw(sess.Refresh.Raw), sess.Refresh.Exp)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newAuth()
		users.On("GetByEmail", ctx, "ana@example.com").Return(model.User{ID: 3, PasswordHash: hash, Status: model.UserActive}, nil)
		_, err := svc.Login(ctx, "ana@example.com", "nope")
		requireKind(t, err, apperr.KindUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, users, _ := newAuth()
		users.On("GetByEmail", ctx, "who@example.com").Return(model.User{}, repository.ErrNotFound)
		_, err := svc.Login(ctx, "who@example.com", "hunter22")
		requireKind(t, err, apperr.KindUnauthorized)
	})

	for _, status := range []model.UserStatus{model.UserInactive, model.UserSuspended} {
		t.Run("status "+string(status), func(t *testing.T) {
			svc, users, _ := newAuth()
			users.On("GetByEmail", ctx, "ana@example.com").Return(model.User{ID: 3, PasswordHash: hash, Status: status}, nil)
			_, err := svc.Login(ctx, "ana@example.com", "hunter22")
			requireKind(t, err, apperr.KindForbidden)
		})
	}
}

func TestRefreshRotates(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newAuth()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	hash := utils.HashRefreshRaw("raw-token")

	tokens.On("FindRefresh", ctx, hash).Return(model.RefreshToken{UserID: 3, TokenHash: hash, ExpiresAt: now.Add(time.Hour)}, nil)
	tokens.On("RevokeByHash", ctx, hash).Return(nil)
	tokens.On("StoreRefresh", ctx, uint64(3), mock.Anything, mock.Anything).Return(nil)
	users.On("GetByID", ctx, uint64(3)).Return(model.User{ID: 3, Role: model.RoleRegular, Status: model.UserActive}, nil)

	sess, err := svc.Refresh(ctx, " raw-token ")
	require.NoError(t, err)
	assert.NotEqual(t, "raw-token", sess.Refresh.Raw)
	tokens.AssertCalled(t, "RevokeByHash", ctx, hash)
}

func TestRefreshRejectsUnusableTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Minute)
	hash := utils.HashRefreshRaw("raw")
	tests := map[string]model.RefreshToken{
		"expired": {UserID: 3, ExpiresAt: now},
		"revoked": {UserID: 3, ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked},
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			svc, _, tokens := newAuth()
			svc.now = func() time.Time { return now }
			tokens.On("FindRefresh", ctx, hash).Return(tok, nil)
			_, err := svc.Refresh(ctx, "raw")
			requireKind(t, err, apperr.KindUnauthorized)
			tokens.AssertNotCalled(t, "RevokeByHash", mock.Anything, mock.Anything)
		})
	}

	svc, _, _ := newAuth()
	_, err := svc.Refresh(ctx, "  ")
	requireKind(t, err, apperr.KindValidation)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuth()

	tokens.On("RevokeAllForUser", ctx, uint64(3)).Return(nil)
	require.NoError(t, svc.Logout(ctx, 3, ""))

	requireKind(t, svc.Logout(ctx, 0, ""), apperr.KindValidation)
}
