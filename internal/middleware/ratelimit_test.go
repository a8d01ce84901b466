package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitAuthBucketIsStricter(t *testing.T) {
	m := NewRateLimitMiddleware(100, 2)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doReq := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, doReq("/api/auth/login"))
	require.Equal(t, http.StatusOK, doReq("/api/auth/login"))
	require.Equal(t, http.StatusTooManyRequests, doReq("/api/auth/login"))

	// The general bucket for the same client still has room.
	require.Equal(t, http.StatusOK, doReq("/health"))
}

func TestRateLimitClientsAreIndependent(t *testing.T) {
	m := NewRateLimitMiddleware(100, 1)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doReq := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, doReq("10.0.0.1:1"))
	require.Equal(t, http.StatusTooManyRequests, doReq("10.0.0.1:2"))
	require.Equal(t, http.StatusOK, doReq("10.0.0.2:1"))
}

func TestExtractClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:80"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.9")

	require.Equal(t, "203.0.113.7", extractClientIP(req))
}
