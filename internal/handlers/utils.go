package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const contextAuthKey contextKey = "auth"

// AuthUser is the identity extracted from a verified session token.
type AuthUser struct {
	ID    int
	Email string
}

func withAuthUser(ctx context.Context, user AuthUser) context.Context {
	return context.WithValue(ctx, contextAuthKey, user)
}

func authUserFromContext(ctx context.Context) (AuthUser, error) {
	user, ok := ctx.Value(contextAuthKey).(AuthUser)
	if !ok || user.ID < 1 {
		return AuthUser{}, errors.New("missing identity")
	}
	return user, nil
}

func parseIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// ErrorResponse is the error payload: a localized message.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse is the payload of operations that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
