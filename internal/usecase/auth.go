package usecase

import (
	"context"
	"errors"

	"github.com/xebia-france/xskillz-v2/internal/domain/user"
	"github.com/xebia-france/xskillz-v2/internal/infrastructure/cache"
	"github.com/xebia-france/xskillz-v2/internal/pkg/jwt"
	"github.com/xebia-france/xskillz-v2/internal/pkg/permissions"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (user.User, string, string, error)
	Login(ctx context.Context, in LoginInput) (user.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	CurrentUser(ctx context.Context, userID int64) (permissions.Me, error)
}

type Auth struct {
	directory UserDirectory
	jwt       jwt.Service
	me        *cache.MeCache
}

func NewAuthUsecase(directory UserDirectory, jwtSvc jwt.Service, me *cache.MeCache) *Auth {
	return &Auth{directory: directory, jwt: jwtSvc, me: me}
}

func (a *Auth) Register(ctx context.Context, in RegisterInput) (user.User, string, string, error) {
	id, err := a.directory.AddUser(ctx, in.Email, in.Name, in.Password)
	if err != nil {
		return user.User{}, "", "", err
	}

	created, err := a.directory.FindByID(ctx, id)
	if err != nil {
		return user.User{}, "", "", err
	}

	return a.issueTokens(ctx, created)
}

func (a *Auth) Login(ctx context.Context, in LoginInput) (user.User, string, string, error) {
	u, err := a.directory.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, "", "", ErrInvalidCredentials
		}
		return user.User{}, "", "", err
	}

	return a.issueTokens(ctx, u)
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := a.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !a.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	u, err := a.directory.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", "", ErrUnauthorized
		}
		return "", "", err
	}

	access, err := a.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := a.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return "", "", ErrInternal
	}
	return access, refresh, nil
}

// CurrentUser resolves the cached me-record, reloading roles from the
// directory on a cache miss.
func (a *Auth) CurrentUser(ctx context.Context, userID int64) (permissions.Me, error) {
	if me, ok := a.me.Get(ctx, userID); ok {
		return me, nil
	}

	u, err := a.directory.FindByID(ctx, userID)
	if err != nil {
		return permissions.Me{}, err
	}
	me, err := a.buildMe(ctx, u)
	if err != nil {
		return permissions.Me{}, err
	}
	a.me.Set(ctx, me)
	return me, nil
}

func (a *Auth) issueTokens(ctx context.Context, u user.User) (user.User, string, string, error) {
	access, err := a.jwt.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}
	refresh, err := a.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return user.User{}, "", "", ErrInternal
	}

	if me, err := a.buildMe(ctx, u); err == nil {
		a.me.Set(ctx, me)
	}

	return u, access, refresh, nil
}

func (a *Auth) buildMe(ctx context.Context, u user.User) (permissions.Me, error) {
	roles, err := a.directory.RolesOf(ctx, u.ID)
	if err != nil {
		return permissions.Me{}, err
	}
	normalized := make([]string, 0, len(roles))
	for _, r := range roles {
		normalized = append(normalized, permissions.Normalize(r))
	}
	return permissions.Me{ID: u.ID, Email: u.Email, Name: u.Name, Roles: normalized}, nil
}
