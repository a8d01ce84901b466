package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
	"github.com/victor-a-l-001/techchallenger-auth/internal/token"
)

// UserStore is the read-only slice of the user-management subsystem this
// service depends on.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int) (model.User, error)
	FindRoleByID(ctx context.Context, id model.Role) (model.UserType, error)
}

// AuthService owns the session lifecycle: issuing, rotating and inspecting
// token pairs. It holds no mutable state; every call is a pure function of
// the clock and the current user record.
type AuthService struct {
	codec       *token.Codec
	users       UserStore
	accessTTL   time.Duration
	refreshTTL  time.Duration
	rememberTTL time.Duration
}

func NewAuthService(codec *token.Codec, users UserStore, accessTTL, refreshTTL, rememberTTL time.Duration) (*AuthService, error) {
	if codec == nil {
		return nil, errors.New("token codec is required")
	}
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 || rememberTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &AuthService{
		codec:       codec,
		users:       users,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		rememberTTL: rememberTTL,
	}, nil
}

// Login verifies credentials and mints a fresh token pair. Unknown email and
// wrong password surface as the same error so callers cannot enumerate
// accounts. Disabled accounts still log in; the authorization gate and the
// refresh path enforce the flag.
func (s *AuthService) Login(ctx context.Context, email string, password string, remember bool) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("login lookup: %w", err)
	}

	// A corrupt stored hash also reads as bad credentials, on purpose.
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	return s.issuePair(ctx, user, remember)
}

// Refresh validates an inbound refresh token and rotates the pair. The
// user's role and disabled flag are re-read from the store, so account
// changes become effective here even though access tokens are unrevocable
// until their own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	if refreshToken == "" {
		return model.TokenPair{}, model.ErrRefreshMissing
	}

	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrRefreshInvalid, err)
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: bad subject %q", model.ErrRefreshInvalid, claims.Subject)
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("refresh lookup: %w", err)
	}
	if user.Disabled {
		return model.TokenPair{}, model.ErrUserDisabled
	}

	return s.issuePair(ctx, user, claims.Remember)
}

// Session verifies an access token and reports its claims. No storage is
// touched; the token is trusted until its own expiry.
func (s *AuthService) Session(accessToken string) (model.SessionView, error) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return model.SessionView{}, err
	}

	return model.SessionView{
		User:       claims.User,
		Subject:    claims.Subject,
		UserTypeID: claims.UserTypeID,
		IssuedAt:   claims.IssuedAt.Unix(),
		ExpiresAt:  claims.ExpiresAt.Unix(),
	}, nil
}

// VerifyAccess exposes codec verification for the request middleware.
func (s *AuthService) VerifyAccess(accessToken string) (*token.AccessClaims, error) {
	return s.codec.VerifyAccess(accessToken)
}

// FindUserByID exposes the live user record for the authorization gate's
// disabled check.
func (s *AuthService) FindUserByID(ctx context.Context, id int) (model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) issuePair(ctx context.Context, user model.User, remember bool) (model.TokenPair, error) {
	role, err := s.users.FindRoleByID(ctx, user.RoleID)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("resolve user type %d: %w", user.RoleID, err)
	}

	accessToken, accessExpiresAt, err := s.codec.SignAccess(user, role.Name, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshTTL := s.refreshTTL
	if remember {
		refreshTTL = s.rememberTTL
	}
	refreshToken, refreshExpiresAt, err := s.codec.SignRefresh(strconv.Itoa(user.ID), remember, refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
