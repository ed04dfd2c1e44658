package types

import (
	"fmt"
	"time"
)

// Project represents a named workspace containing issues and members.
type Project struct {
	// ID is the unique identifier of the project.
	ID int `json:"id" db:"id"`

	// Name is the human-readable name of the project.
	Name string `json:"name" db:"name"`

	// Key is the globally unique short code of the project (e.g., "TASK"),
	// used as the prefix in issue references.
	Key string `json:"key" db:"key"`

	// Description is an optional free-form description of the project.
	Description string `json:"description,omitempty" db:"description"`

	// CreatorID identifies the user who created the project. The creator
	// is granted the OWNER membership at creation time.
	CreatorID int `json:"creatorId" db:"creator_id"`

	// CreatedAt is the timestamp at which the project was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the project.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Counts carries member and issue totals for list views.
	// Omitted in responses that embed the full collections.
	Counts *ProjectCounts `json:"_count,omitempty"`

	// Members is the project's membership list, populated for detail views.
	Members []ProjectMember `json:"members,omitempty"`

	// Issues is the project's issue list ordered by most recent update,
	// populated for detail views.
	Issues []Issue `json:"issues,omitempty"`

	// Creator is the creator's user summary, populated for member views.
	Creator *UserSummary `json:"creator,omitempty"`
}

// ProjectCounts carries aggregate totals for project list views.
type ProjectCounts struct {
	Members int `json:"members"`
	Issues  int `json:"issues"`
}

// Role is a project-level permission grade held by a ProjectMember.
type Role string

// Supported membership roles. OWNER is singular per project, assigned at
// project creation, and can never be granted or revoked afterwards.
const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether the role is one of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManageMembers reports whether the role may add, remove, or
// re-grade other members.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// ParseRole converts a wire string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// ProjectMember is the join entity granting a User a Role within a Project.
type ProjectMember struct {
	// ID is the unique identifier of the membership.
	ID int `json:"id" db:"id"`

	// ProjectID identifies the project the membership belongs to.
	ProjectID int `json:"projectId" db:"project_id"`

	// UserID identifies the member user.
	UserID int `json:"userId" db:"user_id"`

	// Role is the member's permission grade within the project.
	Role Role `json:"role" db:"role"`

	// JoinedAt is the timestamp when the membership was created.
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`

	// User is the member's user summary, populated for member views.
	User *UserSummary `json:"user,omitempty"`
}
