//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/victor-a-l-001/techchallenger-auth/internal/config"
	"github.com/victor-a-l-001/techchallenger-auth/internal/handler"
	"github.com/victor-a-l-001/techchallenger-auth/internal/middleware"
	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
	"github.com/victor-a-l-001/techchallenger-auth/internal/repository"
	"github.com/victor-a-l-001/techchallenger-auth/internal/router"
	"github.com/victor-a-l-001/techchallenger-auth/internal/service"
	"github.com/victor-a-l-001/techchallenger-auth/internal/token"
)

// newServer spins up the real router over the in-memory user store, seeded
// with the demo professor and aluno accounts (password "123456").
func newServer(t *testing.T, mounts ...router.Mount) (*httptest.Server, *repository.MemoryUserRepository) {
	t.Helper()

	codec, err := token.NewCodec("test-secret")
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	users := repository.NewMemoryUserRepository()
	users.Put(model.User{ID: 1, Name: "Professor", Email: "professor@nulo.com.br", PasswordHash: string(hash), RoleID: model.RoleProfessor})
	users.Put(model.User{ID: 2, Name: "Aluno", Email: "aluno@nulo.com.br", PasswordHash: string(hash), RoleID: model.RoleAluno})

	authService, err := service.NewAuthService(codec, users, time.Hour, 24*time.Hour, 168*time.Hour)
	require.NoError(t, err)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)

	cfg := &config.Config{
		ServerPort:       "3000",
		RequestTimeout:   30 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	server := httptest.NewServer(router.New(cfg, nil, authMiddleware, authHandler, mounts...))
	t.Cleanup(server.Close)
	return server, users
}

// postsMount registers a professor-only stub resource behind the auth gate,
// the way the platform's post module composes with it.
func postsMount(api chi.Router, auth *middleware.AuthMiddleware) {
	api.With(auth.Authenticate, auth.RequireRoles(model.RoleProfessor)).
		Post("/posts", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	api.With(auth.Authenticate, auth.RequireRoles(model.RoleProfessor, model.RoleAluno)).
		Get("/posts", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
}

func login(t *testing.T, server *httptest.Server, email string, remember bool) map[string]*http.Cookie {
	t.Helper()

	body, err := json.Marshal(map[string]any{"email": email, "password": "123456", "remember": remember})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, "jwt")
	require.Contains(t, cookies, "refresh")
	return cookies
}

func jsonBody(raw string) io.Reader {
	return strings.NewReader(raw)
}

func doRequest(t *testing.T, method string, url string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
