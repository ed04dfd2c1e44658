package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow-app/apiserver/internal/services"
	"github.com/taskflow-app/apiserver/internal/storage"
	"github.com/taskflow-app/apiserver/internal/store"
)

const maxAvatarBytes = 5 << 20

// UserHandler provides user search and avatar endpoints.
type UserHandler struct {
	userService *services.UserService
	avatars     *storage.AvatarStore
}

// NewUserHandler constructs a handler with the provided dependencies.
func NewUserHandler(userService *services.UserService, avatars *storage.AvatarStore) *UserHandler {
	return &UserHandler{userService: userService, avatars: avatars}
}

// UserRouter registers user routes on the given router. All routes
// require authentication; the middleware is applied by the caller.
func UserRouter(r chi.Router, handler *UserHandler) {
	r.Get("/search", handler.SearchUsers)
	r.Post("/me/avatar", handler.UploadAvatar)
	r.Get("/{userID}/avatar", handler.GetAvatar)
}

// SearchUsers matches users by name or email substring, capped at ten.
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := authUserFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("email"))
	if query == "" {
		writeError(w, http.StatusBadRequest, msgEmailParamRequired)
		return
	}

	users, err := h.userService.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// UploadAvatar stores the caller's avatar image in object storage and
// records its key on the profile.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	auth, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if !h.avatars.Enabled() {
		writeError(w, http.StatusServiceUnavailable, msgAvatarUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	defer file.Close()

	data, err := readFileLimited(file, maxAvatarBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	key, err := h.avatars.Store(r.Context(), auth.ID, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	if err := h.userService.SetAvatar(r.Context(), auth.ID, key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"avatar": key})
}

// GetAvatar streams a user's stored avatar image.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	if _, err := authUserFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	if !h.avatars.Enabled() {
		writeError(w, http.StatusServiceUnavailable, msgAvatarUnavailable)
		return
	}

	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if user.Avatar == "" {
		writeError(w, http.StatusNotFound, msgAvatarNotFound)
		return
	}

	reader, err := h.avatars.Open(r.Context(), user.Avatar)
	if err != nil {
		writeError(w, http.StatusNotFound, msgAvatarNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := io.Copy(w, reader); err != nil {
		return
	}
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
