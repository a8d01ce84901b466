package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeValidationErrors emits the 400 shape: {"errors": {field: [messages]}}.
func writeValidationErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fields})
}

// writeError translates internal errors to the flat {"error": message} wire
// shape. Token and refresh failures collapse to generic 401 messages; the
// internal distinction only exists for logging.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Erro interno no servidor"

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Credenciais inválidas"
	case errors.Is(err, model.ErrRefreshMissing):
		status = http.StatusUnauthorized
		message = "Refresh token ausente"
	case errors.Is(err, model.ErrRefreshInvalid),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrUserDisabled):
		status = http.StatusUnauthorized
		message = "Refresh token inválido"
	case errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "Token expirado"
	case errors.Is(err, model.ErrTokenMalformed),
		errors.Is(err, model.ErrTokenSignatureInvalid):
		status = http.StatusUnauthorized
		message = "Token inválido"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, map[string]string{"error": message})
}
