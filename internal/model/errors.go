package model

import "errors"

var (
	// Credential errors. Unknown email and wrong password are the same
	// error on purpose (no user enumeration).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token errors as reported by the codec.
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")

	// Refresh flow errors.
	ErrRefreshMissing = errors.New("refresh token missing")
	ErrRefreshInvalid = errors.New("refresh token invalid")
	ErrUserNotFound   = errors.New("user not found")
	ErrUserDisabled   = errors.New("user disabled")

	// Reference data errors.
	ErrRoleNotFound = errors.New("role not found")
)
