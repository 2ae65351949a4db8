package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
	"github.com/iliyamo/space-reservation/internal/repository"
	"github.com/iliyamo/space-reservation/internal/utils"
)

// AuthConfig carries the token and hashing settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

type RegisterInput struct {
	Name     string     `json:"name" validate:"required,max=120"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6,max=72"`
	Phone    string     `json:"phone" validate:"max=40"`
	Role     model.Role `json:"role"`
}

// Session is what login and refresh hand back to the client.
type Session struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// AuthService registers users and issues access/refresh token pairs.
type AuthService struct {
	cfg    AuthConfig
	users  UserRepository
	tokens TokenRepository
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(cfg AuthConfig, users UserRepository, tokens TokenRepository, log *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, users: users, tokens: tokens, log: log, now: time.Now}
}

// Register creates an active user.  Role defaults to regular; admins are
// never self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	role := model.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if role == "" {
		role = model.RoleRegular
	}
	switch {
	case !role.Valid():
		return model.User{}, apperr.Validation("invalid role %q", in.Role)
	case role == model.RoleAdmin:
		return model.User{}, apperr.Forbidden("admin accounts cannot be self-registered")
	case strings.TrimSpace(in.Email) == "" || in.Password == "":
		return model.User{}, apperr.Validation("email and password are required")
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, apperr.Validation("password cannot be hashed: %v", err)
	}
	u := model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
		Status:       model.UserActive,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.User{}, apperr.Conflict("email already exists")
		}
		return model.User{}, storeErr(s.log, "create user", err, "user not found")
	}
	s.log.Info("user registered", zap.Uint64("user_id", u.ID), zap.String("role", string(u.Role)))
	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return model.User{}, storeErr(s.log, "get user", err, "user %d not found", u.ID)
	}
	return created, nil
}

// Login verifies the credentials and issues a new token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return Session{}, apperr.Validation("email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return Session{}, storeErr(s.log, "login", err, "user not found")
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, apperr.Unauthorized("invalid credentials")
	}
	if err := checkActive(u); err != nil {
		return Session{}, err
	}
	return s.issue(ctx, u)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	hash, t, err := s.usableRefresh(ctx, raw)
	if err != nil {
		return Session{}, err
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return Session{}, storeErr(s.log, "revoke refresh", err, "refresh token not found")
	}
	u, err := s.users.GetByID(ctx, t.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return Session{}, storeErr(s.log, "refresh", err, "user not found")
	}
	if err := checkActive(u); err != nil {
		return Session{}, err
	}
	return s.issue(ctx, u)
}

// Logout revokes the given refresh token, or every token of actorID when
// raw is empty.
func (s *AuthService) Logout(ctx context.Context, actorID uint64, raw string) error {
	if strings.TrimSpace(raw) != "" {
		hash, _, err := s.usableRefresh(ctx, raw)
		if err != nil {
			return err
		}
		return storeErr(s.log, "logout", s.tokens.RevokeByHash(ctx, hash), "refresh token not found")
	}
	if actorID == 0 {
		return apperr.Validation("provide Authorization header or refresh_token")
	}
	return storeErr(s.log, "logout all", s.tokens.RevokeAllForUser(ctx, actorID), "user not found")
}

// usableRefresh hashes raw and checks that the token exists, is not
// revoked and has not expired.
func (s *AuthService) usableRefresh(ctx context.Context, raw string) (string, model.RefreshToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.RefreshToken{}, apperr.Validation("refresh_token required")
	}
	hash := utils.HashRefreshRaw(raw)
	t, err := s.tokens.FindRefresh(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return "", t, apperr.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return "", t, storeErr(s.log, "find refresh", err, "refresh token not found")
	}
	if t.RevokedAt != nil || !s.now().Before(t.ExpiresAt) {
		return "", t, apperr.Unauthorized("invalid refresh token")
	}
	return hash, t, nil
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, storeErr(s.log, "issue access", err, "user not found")
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, storeErr(s.log, "issue refresh", err, "user not found")
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, storeErr(s.log, "save refresh", err, "user not found")
	}
	return Session{User: u, Access: access, Refresh: refresh}, nil
}

func checkActive(u model.User) error {
	if u.Status != model.UserActive {
		return apperr.Forbidden("account is %s", u.Status)
	}
	return nil
}
