package services

import (
	"context"
	"errors"

	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

// ErrOwnerImmutable is returned when an operation would promote to,
// demote from, or remove the OWNER membership. The OWNER is assigned at
// project creation and can never change.
var ErrOwnerImmutable = errors.New("owner membership is immutable")

// MemberRepository defines persistence operations for project memberships.
type MemberRepository interface {
	GetByProjectAndUser(ctx context.Context, projectID, userID int) (types.ProjectMember, error)
	GetByID(ctx context.Context, projectID, memberID int) (types.ProjectMember, error)
	GetWithUser(ctx context.Context, memberID int) (types.ProjectMember, error)
	Create(ctx context.Context, member types.ProjectMember) (types.ProjectMember, error)
	UpdateRole(ctx context.Context, memberID int, role types.Role) error
	Delete(ctx context.Context, memberID int) error
	ListByProject(ctx context.Context, projectID int) ([]types.ProjectMember, error)
}

// MemberService encapsulates membership use-cases and the project-level
// access-control rules. Every project-scoped handler resolves access
// through it before touching project data.
type MemberService struct {
	members  MemberRepository
	projects ProjectRepository
	users    UserRepository
}

func NewMemberService(members MemberRepository, projects ProjectRepository, users UserRepository) *MemberService {
	return &MemberService{members: members, projects: projects, users: users}
}

// Membership returns the membership userID holds in projectID, or
// store.ErrNotFound when none exists.
func (s *MemberService) Membership(ctx context.Context, projectID, userID int) (types.ProjectMember, error) {
	return s.members.GetByProjectAndUser(ctx, projectID, userID)
}

// HasAccess reports whether the user may read or mutate the project:
// the user is its creator or holds a current membership.
func (s *MemberService) HasAccess(ctx context.Context, projectID, userID int) (bool, error) {
	if _, err := s.members.GetByProjectAndUser(ctx, projectID, userID); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return project.CreatorID == userID, nil
}

// CanManage reports whether the user holds a role allowed to manage the
// project's membership (OWNER or ADMIN).
func (s *MemberService) CanManage(ctx context.Context, projectID, userID int) (bool, error) {
	member, err := s.members.GetByProjectAndUser(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.Role.CanManageMembers(), nil
}

// ListByProject returns the project's memberships with user summaries.
func (s *MemberService) ListByProject(ctx context.Context, projectID int) ([]types.ProjectMember, error) {
	return s.members.ListByProject(ctx, projectID)
}

// Add grants userID a MEMBER role in the project. Returns
// store.ErrNotFound when the user does not exist and store.ErrConflict
// when a membership already exists. Invited members always start as
// MEMBER; roles are granted separately.
func (s *MemberService) Add(ctx context.Context, projectID, userID int) (types.ProjectMember, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return types.ProjectMember{}, err
	}

	member, err := s.members.Create(ctx, types.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      types.RoleMember,
	})
	if err != nil {
		return types.ProjectMember{}, err
	}
	return s.members.GetWithUser(ctx, member.ID)
}

// ChangeRole re-grades a membership between MEMBER and ADMIN. The OWNER
// membership is rejected with ErrOwnerImmutable, and OWNER can never be
// a target role.
func (s *MemberService) ChangeRole(ctx context.Context, projectID, memberID int, role types.Role) (types.ProjectMember, error) {
	if role != types.RoleMember && role != types.RoleAdmin {
		return types.ProjectMember{}, ErrOwnerImmutable
	}

	target, err := s.members.GetByID(ctx, projectID, memberID)
	if err != nil {
		return types.ProjectMember{}, err
	}
	if target.Role == types.RoleOwner {
		return types.ProjectMember{}, ErrOwnerImmutable
	}

	if err := s.members.UpdateRole(ctx, memberID, role); err != nil {
		return types.ProjectMember{}, err
	}
	return s.members.GetWithUser(ctx, memberID)
}

// Remove deletes a membership. The OWNER membership is rejected with
// ErrOwnerImmutable regardless of who asks.
func (s *MemberService) Remove(ctx context.Context, projectID, memberID int) error {
	target, err := s.members.GetByID(ctx, projectID, memberID)
	if err != nil {
		return err
	}
	if target.Role == types.RoleOwner {
		return ErrOwnerImmutable
	}
	return s.members.Delete(ctx, memberID)
}
