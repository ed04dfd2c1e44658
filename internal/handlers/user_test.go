package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/apiserver/internal/services"
	"github.com/taskflow-app/apiserver/internal/storage"
	"github.com/taskflow-app/apiserver/types"
)

// fakeObjectStorage keeps objects in a map, standing in for minio or GCS.
type fakeObjectStorage struct {
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, io.EOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStorage) Bucket() string { return "test-avatars" }

func TestSearchUsers_QueryRequired(t *testing.T) {
	handler := NewUserHandler(services.NewUserService(&mockUserRepo{}), nil)

	req := newAuthedRequest(http.MethodGet, "/users/search", nil, AuthUser{ID: 1}, nil)
	rec := httptest.NewRecorder()
	handler.SearchUsers(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgEmailParamRequired, decodeMessage(t, rec))
}

func TestSearchUsers_OK(t *testing.T) {
	var gotQuery string
	var gotLimit int
	repo := &mockUserRepo{
		searchFunc: func(ctx context.Context, query string, limit int) ([]types.UserSummary, error) {
			gotQuery = query
			gotLimit = limit
			return []types.UserSummary{{ID: 2, Name: "Grace", Email: "grace@example.com"}}, nil
		},
	}
	handler := NewUserHandler(services.NewUserService(repo), nil)

	req := newAuthedRequest(http.MethodGet, "/users/search?email=gra", nil, AuthUser{ID: 1}, nil)
	rec := httptest.NewRecorder()
	handler.SearchUsers(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gra", gotQuery)
	assert.Equal(t, 10, gotLimit)

	var got []types.UserSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "grace@example.com", got[0].Email)
}

func TestUploadAvatar_StorageNotConfigured(t *testing.T) {
	handler := NewUserHandler(services.NewUserService(&mockUserRepo{}), nil)

	req := newAuthedRequest(http.MethodPost, "/users/me/avatar", nil, AuthUser{ID: 1}, nil)
	rec := httptest.NewRecorder()
	handler.UploadAvatar(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, msgAvatarUnavailable, decodeMessage(t, rec))
}

func TestUploadAvatar_StoresObjectAndRecordsKey(t *testing.T) {
	backend := newFakeObjectStorage()
	var recordedKey string
	repo := &mockUserRepo{
		updateAvatarFunc: func(ctx context.Context, id int, avatar string) error {
			recordedKey = avatar
			return nil
		},
	}
	handler := NewUserHandler(services.NewUserService(repo), storage.NewAvatarStore(backend))

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("avatar", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/users/me/avatar", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req = req.WithContext(withAuthUser(req.Context(), AuthUser{ID: 7}))
	rec := httptest.NewRecorder()
	handler.UploadAvatar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, recordedKey)
	assert.Equal(t, []byte("png-bytes"), backend.objects[recordedKey])

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, recordedKey, resp["avatar"])
}

func TestGetAvatar_NoneUploaded(t *testing.T) {
	repo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int) (types.User, error) {
			return types.User{ID: id, Name: "Ada"}, nil
		},
	}
	handler := NewUserHandler(services.NewUserService(repo), storage.NewAvatarStore(newFakeObjectStorage()))

	req := newAuthedRequest(http.MethodGet, "/users/7/avatar", nil, AuthUser{ID: 1}, map[string]string{"userID": "7"})
	rec := httptest.NewRecorder()
	handler.GetAvatar(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgAvatarNotFound, decodeMessage(t, rec))
}

func TestGetAvatar_Streams(t *testing.T) {
	backend := newFakeObjectStorage()
	backend.objects["avatars/7/123"] = []byte("png-bytes")
	repo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int) (types.User, error) {
			return types.User{ID: id, Avatar: "avatars/7/123"}, nil
		},
	}
	handler := NewUserHandler(services.NewUserService(repo), storage.NewAvatarStore(backend))

	req := newAuthedRequest(http.MethodGet, "/users/7/avatar", nil, AuthUser{ID: 1}, map[string]string{"userID": "7"})
	rec := httptest.NewRecorder()
	handler.GetAvatar(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}
