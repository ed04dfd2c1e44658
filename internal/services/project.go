package services

import (
	"context"

	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	CreateWithOwner(ctx context.Context, project types.Project) (types.Project, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	ListForUser(ctx context.Context, userID int) ([]types.Project, error)
	Get(ctx context.Context, id int) (types.Project, error)
	GetDetail(ctx context.Context, id int) (types.Project, error)
}

// ProjectService encapsulates project use-cases.
type ProjectService struct {
	repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create inserts the project together with its OWNER membership.
// Returns store.ErrConflict when the key is already taken.
func (s *ProjectService) Create(ctx context.Context, project types.Project) (types.Project, error) {
	exists, err := s.repo.KeyExists(ctx, project.Key)
	if err != nil {
		return types.Project{}, err
	}
	if exists {
		return types.Project{}, store.ErrConflict
	}
	return s.repo.CreateWithOwner(ctx, project)
}

func (s *ProjectService) ListForUser(ctx context.Context, userID int) ([]types.Project, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *ProjectService) Get(ctx context.Context, id int) (types.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *ProjectService) GetDetail(ctx context.Context, id int) (types.Project, error) {
	return s.repo.GetDetail(ctx, id)
}
