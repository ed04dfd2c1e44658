package services

import (
	"context"

	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

type mockUserRepo struct {
	getByIDFunc      func(ctx context.Context, id int) (types.User, error)
	getByEmailFunc   func(ctx context.Context, email string) (types.User, error)
	createFunc       func(ctx context.Context, user types.User) (types.User, error)
	searchFunc       func(ctx context.Context, query string, limit int) ([]types.UserSummary, error)
	updateAvatarFunc func(ctx context.Context, id int, avatar string) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return types.User{}, store.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return types.User{}, store.ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return user, nil
}

func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]types.UserSummary, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateAvatar(ctx context.Context, id int, avatar string) error {
	if m.updateAvatarFunc != nil {
		return m.updateAvatarFunc(ctx, id, avatar)
	}
	return nil
}

type mockProjectRepo struct {
	createWithOwnerFunc func(ctx context.Context, project types.Project) (types.Project, error)
	keyExistsFunc       func(ctx context.Context, key string) (bool, error)
	listForUserFunc     func(ctx context.Context, userID int) ([]types.Project, error)
	getFunc             func(ctx context.Context, id int) (types.Project, error)
	getDetailFunc       func(ctx context.Context, id int) (types.Project, error)
}

func (m *mockProjectRepo) CreateWithOwner(ctx context.Context, project types.Project) (types.Project, error) {
	if m.createWithOwnerFunc != nil {
		return m.createWithOwnerFunc(ctx, project)
	}
	project.ID = 1
	return project, nil
}

func (m *mockProjectRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	if m.keyExistsFunc != nil {
		return m.keyExistsFunc(ctx, key)
	}
	return false, nil
}

func (m *mockProjectRepo) ListForUser(ctx context.Context, userID int) ([]types.Project, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProjectRepo) Get(ctx context.Context, id int) (types.Project, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return types.Project{}, store.ErrNotFound
}

func (m *mockProjectRepo) GetDetail(ctx context.Context, id int) (types.Project, error) {
	if m.getDetailFunc != nil {
		return m.getDetailFunc(ctx, id)
	}
	return types.Project{}, store.ErrNotFound
}

type mockMemberRepo struct {
	getByProjectAndUserFunc func(ctx context.Context, projectID, userID int) (types.ProjectMember, error)
	getByIDFunc             func(ctx context.Context, projectID, memberID int) (types.ProjectMember, error)
	getWithUserFunc         func(ctx context.Context, memberID int) (types.ProjectMember, error)
	createFunc              func(ctx context.Context, member types.ProjectMember) (types.ProjectMember, error)
	updateRoleFunc          func(ctx context.Context, memberID int, role types.Role) error
	deleteFunc              func(ctx context.Context, memberID int) error
	listByProjectFunc       func(ctx context.Context, projectID int) ([]types.ProjectMember, error)
}

func (m *mockMemberRepo) GetByProjectAndUser(ctx context.Context, projectID, userID int) (types.ProjectMember, error) {
	if m.getByProjectAndUserFunc != nil {
		return m.getByProjectAndUserFunc(ctx, projectID, userID)
	}
	return types.ProjectMember{}, store.ErrNotFound
}

func (m *mockMemberRepo) GetByID(ctx context.Context, projectID, memberID int) (types.ProjectMember, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, projectID, memberID)
	}
	return types.ProjectMember{}, store.ErrNotFound
}

func (m *mockMemberRepo) GetWithUser(ctx context.Context, memberID int) (types.ProjectMember, error) {
	if m.getWithUserFunc != nil {
		return m.getWithUserFunc(ctx, memberID)
	}
	return types.ProjectMember{ID: memberID}, nil
}

func (m *mockMemberRepo) Create(ctx context.Context, member types.ProjectMember) (types.ProjectMember, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, member)
	}
	member.ID = 1
	return member, nil
}

func (m *mockMemberRepo) UpdateRole(ctx context.Context, memberID int, role types.Role) error {
	if m.updateRoleFunc != nil {
		return m.updateRoleFunc(ctx, memberID, role)
	}
	return nil
}

func (m *mockMemberRepo) Delete(ctx context.Context, memberID int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, memberID)
	}
	return nil
}

func (m *mockMemberRepo) ListByProject(ctx context.Context, projectID int) ([]types.ProjectMember, error) {
	if m.listByProjectFunc != nil {
		return m.listByProjectFunc(ctx, projectID)
	}
	return nil, nil
}

type mockIssueRepo struct {
	createFunc          func(ctx context.Context, issue types.Issue) (types.Issue, error)
	updateFunc          func(ctx context.Context, issueID, projectID int, patch store.IssuePatch) error
	getDetailFunc       func(ctx context.Context, issueID, projectID int) (types.Issue, error)
	existsInProjectFunc func(ctx context.Context, issueID, projectID int) (bool, error)
	listForUserFunc     func(ctx context.Context, userID int) ([]types.Issue, error)
}

func (m *mockIssueRepo) Create(ctx context.Context, issue types.Issue) (types.Issue, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, issue)
	}
	issue.ID = 1
	return issue, nil
}

func (m *mockIssueRepo) Update(ctx context.Context, issueID, projectID int, patch store.IssuePatch) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, issueID, projectID, patch)
	}
	return nil
}

func (m *mockIssueRepo) GetDetail(ctx context.Context, issueID, projectID int) (types.Issue, error) {
	if m.getDetailFunc != nil {
		return m.getDetailFunc(ctx, issueID, projectID)
	}
	return types.Issue{ID: issueID, ProjectID: projectID}, nil
}

func (m *mockIssueRepo) ExistsInProject(ctx context.Context, issueID, projectID int) (bool, error) {
	if m.existsInProjectFunc != nil {
		return m.existsInProjectFunc(ctx, issueID, projectID)
	}
	return true, nil
}

func (m *mockIssueRepo) ListForUser(ctx context.Context, userID int) ([]types.Issue, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return nil, nil
}

type mockCommentRepo struct {
	createFunc func(ctx context.Context, comment types.Comment) (types.Comment, error)
}

func (m *mockCommentRepo) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, comment)
	}
	comment.ID = 1
	return comment, nil
}
