package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/victor-a-l-001/techchallenger-auth/internal/cookie"
	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
	"github.com/victor-a-l-001/techchallenger-auth/internal/token"
)

type sessionVerifier interface {
	VerifyAccess(tokenString string) (*token.AccessClaims, error)
	FindUserByID(ctx context.Context, id int) (model.User, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	auth sessionVerifier
}

func NewAuthMiddleware(auth sessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// ExtractToken finds the access token on a request: the jwt cookie first,
// then an Authorization bearer header. Returns "" when neither is present.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(cookie.AccessName); err == nil && c.Value != "" {
		return c.Value
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate verifies the access token and attaches its claims to the
// request context. It does not consult the user store; RequireRoles does.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ExtractToken(r)
		if tokenString == "" {
			writeDenied(w, http.StatusUnauthorized, "Token não fornecido")
			return
		}

		claims, err := m.auth.VerifyAccess(tokenString)
		if err != nil {
			if errors.Is(err, model.ErrTokenExpired) {
				writeDenied(w, http.StatusUnauthorized, "Token expirado")
				return
			}
			writeDenied(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates a handler to the given user types. It re-reads the live
// user record, so an account disabled after token issuance is denied here
// (and its cookies cleared) even though the token itself is still valid.
func (m *AuthMiddleware) RequireRoles(allowed ...model.Role) func(http.Handler) http.Handler {
	allowedSet := map[model.Role]struct{}{}
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "Não autenticado")
				return
			}

			id, err := strconv.Atoi(claims.Subject)
			if err != nil {
				cookie.Clear(w)
				writeDenied(w, http.StatusUnauthorized, "Não autenticado")
				return
			}

			user, err := m.auth.FindUserByID(r.Context(), id)
			if errors.Is(err, model.ErrUserNotFound) || (err == nil && user.Disabled) {
				cookie.Clear(w)
				writeDenied(w, http.StatusUnauthorized, "Não autenticado")
				return
			}
			if err != nil {
				writeDenied(w, http.StatusInternalServerError, "Erro interno no servidor")
				return
			}

			if _, permitted := allowedSet[claims.UserTypeID]; !permitted {
				cookie.Clear(w)
				writeDenied(w, http.StatusForbidden, "Acesso negado")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the access claims Authenticate stored, if any.
func ClaimsFromContext(ctx context.Context) (*token.AccessClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*token.AccessClaims)
	return claims, ok
}

func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
