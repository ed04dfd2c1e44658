package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

func TestProjectService_Create_KeyTaken(t *testing.T) {
	repo := &mockProjectRepo{
		keyExistsFunc: func(ctx context.Context, key string) (bool, error) {
			return key == "TF", nil
		},
	}
	s := NewProjectService(repo)

	_, err := s.Create(context.Background(), types.Project{Name: "TaskFlow", Key: "TF", CreatorID: 1})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestProjectService_Create_OK(t *testing.T) {
	var created types.Project
	repo := &mockProjectRepo{
		createWithOwnerFunc: func(ctx context.Context, project types.Project) (types.Project, error) {
			created = project
			project.ID = 3
			return project, nil
		},
	}
	s := NewProjectService(repo)

	project, err := s.Create(context.Background(), types.Project{Name: "TaskFlow", Key: "TF", CreatorID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, project.ID)
	assert.Equal(t, "TF", created.Key)
	assert.Equal(t, 1, created.CreatorID)
}
