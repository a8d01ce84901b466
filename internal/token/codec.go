package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// AccessClaims is the payload of short-lived access tokens. It carries the
// profile slice the frontend renders plus the role id the authorization gate
// checks.
type AccessClaims struct {
	User       model.SessionUser `json:"user"`
	UserTypeID model.Role        `json:"userTypeId"`
	TokenType  string            `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims is deliberately minimal: subject plus the remember choice.
// No profile data, so a rotated refresh token can never leak a stale name,
// email or role.
type RefreshClaims struct {
	Remember  bool   `json:"remember"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens with a single process-wide secret.
// All embedded times are whole seconds since epoch.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Codec{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// SignAccess mints an access token for the user. roleName becomes the single
// element of the roles array. Returns the token and its exact expiry.
func (c *Codec) SignAccess(user model.User, roleName string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := AccessClaims{
		User: model.SessionUser{
			Name:  user.Name,
			Email: user.Email,
			Roles: []string{roleName},
		},
		UserTypeID: user.RoleID,
		TokenType:  TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// SignRefresh mints a refresh token for the subject, carrying the remember
// flag so each rotation preserves the TTL the user originally chose.
func (c *Codec) SignRefresh(subject string, remember bool, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := RefreshClaims{
		Remember:  remember,
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, expiresAt, nil
}

// VerifyAccess checks signature and expiry and returns the decoded claims.
// Business validity (user still enabled, role unchanged) is the caller's job.
func (c *Codec) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	parsed, err := c.parser.ParseWithClaims(tokenString, claims, c.keyFunc)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !parsed.Valid || claims.TokenType != TypeAccess || claims.Subject == "" {
		return nil, model.ErrTokenMalformed
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, model.ErrTokenMalformed
	}
	return claims, nil
}

// VerifyRefresh is VerifyAccess for refresh tokens. An access token presented
// here (or the other way round) fails as malformed.
func (c *Codec) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	parsed, err := c.parser.ParseWithClaims(tokenString, claims, c.keyFunc)
	if err != nil {
		return nil, mapParseError(err)
	}
	if !parsed.Valid || claims.TokenType != TypeRefresh || claims.Subject == "" {
		return nil, model.ErrTokenMalformed
	}
	if claims.ExpiresAt == nil {
		return nil, model.ErrTokenMalformed
	}
	return claims, nil
}

// DecodeExpiry reads exp back without verifying the signature. Only used to
// echo the exact expiry of a token this process just signed; never call it on
// client input.
func (c *Codec) DecodeExpiry(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := c.parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, model.ErrTokenMalformed
	}
	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return time.Time{}, model.ErrTokenMalformed
	}
	return expiresAt.Time, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	return c.secret, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return model.ErrTokenSignatureInvalid
	default:
		return model.ErrTokenMalformed
	}
}
