package handler

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/victor-a-l-001/techchallenger-auth/internal/cookie"
	"github.com/victor-a-l-001/techchallenger-auth/internal/middleware"
	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
	"github.com/victor-a-l-001/techchallenger-auth/internal/service"
)

const sessionExpiresHeader = "X-Session-Expires-At"

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login authenticates by email and password and sets the cookie pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationErrors(w, map[string][]string{"body": {"JSON inválido"}})
		return
	}

	if fields := validateLogin(payload); len(fields) > 0 {
		writeValidationErrors(w, fields)
		return
	}

	pair, err := h.service.Login(r.Context(), payload.Email, payload.Password, payload.Remember)
	if err != nil {
		writeError(w, err)
		return
	}

	cookie.Set(w, pair)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Login Realizado com Sucesso."})
}

// Refresh rotates the token pair using the refresh cookie. Any failure past
// "no cookie at all" clears both cookies before answering 401.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if c, err := r.Cookie(cookie.RefreshName); err == nil {
		refreshToken = c.Value
	}
	if refreshToken == "" {
		writeError(w, model.ErrRefreshMissing)
		return
	}

	pair, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		cookie.Clear(w)
		writeError(w, err)
		return
	}

	cookie.Set(w, pair)
	writeJSON(w, http.StatusOK, map[string]string{"token": pair.AccessToken})
}

// Session reports the claims of a valid access token. Failures are a bare
// 401 with no body, so a caller learns nothing about why.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	accessToken := middleware.ExtractToken(r)
	if accessToken == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	view, err := h.service.Session(accessToken)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set(sessionExpiresHeader, time.Unix(view.ExpiresAt, 0).UTC().Format(time.RFC3339))
	writeJSON(w, http.StatusOK, view)
}

// Logout clears both cookies. There is no server-side session to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	cookie.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func validateLogin(payload model.LoginRequest) map[string][]string {
	fields := map[string][]string{}

	email := strings.TrimSpace(payload.Email)
	if email == "" {
		fields["email"] = append(fields["email"], "E-mail inválido")
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = append(fields["email"], "E-mail inválido")
	}

	if len(payload.Password) < 6 {
		fields["password"] = append(fields["password"], "Senha deve ter ao menos 6 caracteres")
	}

	return fields
}
