package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/victor-a-l-001/techchallenger-auth/internal/cookie"
	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
	"github.com/victor-a-l-001/techchallenger-auth/internal/repository"
	"github.com/victor-a-l-001/techchallenger-auth/internal/service"
	"github.com/victor-a-l-001/techchallenger-auth/internal/token"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *service.AuthService, *repository.MemoryUserRepository) {
	t.Helper()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	users := repository.NewMemoryUserRepository()
	users.Put(model.User{ID: 1, Name: "Professor", Email: "professor@nulo.com.br", PasswordHash: string(hash), RoleID: model.RoleProfessor})
	users.Put(model.User{ID: 2, Name: "Aluno", Email: "aluno@nulo.com.br", PasswordHash: string(hash), RoleID: model.RoleAluno})

	svc, err := service.NewAuthService(codec, users, time.Hour, 24*time.Hour, 168*time.Hour)
	require.NoError(t, err)
	return NewAuthMiddleware(svc), svc, users
}

func accessTokenFor(t *testing.T, svc *service.AuthService, email string) string {
	t.Helper()

	pair, err := svc.Login(context.Background(), email, "123456", false)
	require.NoError(t, err)
	return pair.AccessToken
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateWithoutToken(t *testing.T) {
	m, _, _ := newTestMiddleware(t)

	called := false
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Token não fornecido"}`, rec.Body.String())
}

func TestAuthenticateExpiredToken(t *testing.T) {
	m, _, _ := newTestMiddleware(t)

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)
	expired, _, err := codec.SignAccess(model.User{ID: 1, RoleID: model.RoleProfessor}, "Professor", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: expired})

	called := false
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, req)

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Token expirado"}`, rec.Body.String())
}

func TestAuthenticateInvalidToken(t *testing.T) {
	m, _, _ := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nem.um.jwt")

	called := false
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, req)

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Token inválido"}`, rec.Body.String())
}

func TestAuthenticateAttachesClaims(t *testing.T) {
	m, svc, _ := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: accessTokenFor(t, svc, "professor@nulo.com.br")})

	rec := httptest.NewRecorder()
	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "1", claims.Subject)
		require.Equal(t, model.RoleProfessor, claims.UserTypeID)
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	m, svc, _ := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: accessTokenFor(t, svc, "professor@nulo.com.br")})

	called := false
	rec := httptest.NewRecorder()
	m.Authenticate(m.RequireRoles(model.RoleProfessor)(okHandler(&called))).ServeHTTP(rec, req)

	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesDeniesOtherRole(t *testing.T) {
	m, svc, _ := newTestMiddleware(t)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: accessTokenFor(t, svc, "aluno@nulo.com.br")})

	called := false
	rec := httptest.NewRecorder()
	m.Authenticate(m.RequireRoles(model.RoleProfessor)(okHandler(&called))).ServeHTTP(rec, req)

	require.False(t, called)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"error":"Acesso negado"}`, rec.Body.String())

	var clearedAccess bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.AccessName && c.Value == "" && c.MaxAge < 0 {
			clearedAccess = true
		}
	}
	require.True(t, clearedAccess)
}

func TestRequireRolesDeniesDisabledAccount(t *testing.T) {
	m, svc, users := newTestMiddleware(t)

	accessToken := accessTokenFor(t, svc, "aluno@nulo.com.br")

	disabled, err := users.FindByID(context.Background(), 2)
	require.NoError(t, err)
	disabled.Disabled = true
	users.Put(disabled)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AccessName, Value: accessToken})

	called := false
	rec := httptest.NewRecorder()
	m.Authenticate(m.RequireRoles(model.RoleAluno)(okHandler(&called))).ServeHTTP(rec, req)

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Não autenticado"}`, rec.Body.String())
}

func TestRequireRolesWithoutAuthenticate(t *testing.T) {
	m, _, _ := newTestMiddleware(t)

	called := false
	rec := httptest.NewRecorder()
	m.RequireRoles(model.RoleProfessor)(okHandler(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.False(t, called)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Não autenticado"}`, rec.Body.String())
}
