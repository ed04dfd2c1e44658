package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ObjectStorage defines the object operations shared by the avatar backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// AvatarStore keeps user avatar images in object storage. Keys are
// derived from the user id plus an upload timestamp so a re-upload never
// overwrites the object a stale profile row may still reference.
type AvatarStore struct {
	backend ObjectStorage
}

// NewAvatarStore wraps an object-storage backend.
func NewAvatarStore(backend ObjectStorage) *AvatarStore {
	return &AvatarStore{backend: backend}
}

// Enabled reports whether a backend is configured.
func (s *AvatarStore) Enabled() bool {
	return s != nil && s.backend != nil
}

// EnsureBucket ensures the avatar bucket exists.
func (s *AvatarStore) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

// Store uploads an avatar image and returns its object key.
func (s *AvatarStore) Store(ctx context.Context, userID int, r io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("avatars/%d/%d", userID, time.Now().UnixNano())
	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Open returns a reader for a stored avatar.
func (s *AvatarStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

// Delete removes a stored avatar object.
func (s *AvatarStore) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}
