package services

import (
	"context"

	"github.com/taskflow-app/apiserver/types"
)

const maxSearchResults = 10

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Search(ctx context.Context, query string, limit int) ([]types.UserSummary, error)
	UpdateAvatar(ctx context.Context, id int, avatar string) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// Search matches users by name or email substring, capped at ten results.
func (s *UserService) Search(ctx context.Context, query string) ([]types.UserSummary, error) {
	return s.repo.Search(ctx, query, maxSearchResults)
}

func (s *UserService) SetAvatar(ctx context.Context, id int, objectKey string) error {
	return s.repo.UpdateAvatar(ctx, id, objectKey)
}
