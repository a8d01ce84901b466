// Package cookie centralizes the auth cookie pair. Set and Clear must agree
// on names, paths and attributes; a path mismatch on clear leaves a stale
// cookie behind, which is the classic logout bug.
package cookie

import (
	"net/http"
	"time"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
)

const (
	// AccessName is the cookie carrying the short-lived access token.
	AccessName = "jwt"
	// RefreshName is the cookie carrying the refresh token. It is scoped to
	// the refresh endpoint so the browser never sends it anywhere else.
	RefreshName = "refresh"
	// RefreshPath is the only path the refresh cookie travels on.
	RefreshPath = "/api/auth/refresh"
)

// Set writes both auth cookies with expiries matching the tokens' own exp.
func Set(w http.ResponseWriter, pair model.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessName,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshName,
		Value:    pair.RefreshToken,
		Path:     RefreshPath,
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// Clear expires both auth cookies using the same path/attribute combination
// they were set with.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshName,
		Value:    "",
		Path:     RefreshPath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
