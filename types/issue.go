package types

import (
	"fmt"
	"time"
)

// Issue represents a trackable unit of work within a project.
type Issue struct {
	// ID is the unique identifier of the issue.
	ID int `json:"id" db:"id"`

	// Title is the short human-readable summary of the issue.
	Title string `json:"title" db:"title"`

	// Description contains the full issue text. Optional.
	Description string `json:"description,omitempty" db:"description"`

	// Type classifies the issue (task, bug, story, epic).
	Type IssueType `json:"type" db:"type"`

	// Status is the issue's current kanban column.
	Status IssueStatus `json:"status" db:"status"`

	// Priority is the issue's triage priority.
	Priority IssuePriority `json:"priority" db:"priority"`

	// ProjectID identifies the project the issue belongs to.
	ProjectID int `json:"projectId" db:"project_id"`

	// CreatorID identifies the user who created the issue.
	CreatorID int `json:"creatorId" db:"creator_id"`

	// AssigneeID identifies the member the issue is assigned to.
	// Nil when unassigned. When set, the referenced user must hold a
	// membership in the issue's project.
	AssigneeID *int `json:"assigneeId" db:"assignee_id"`

	// CreatedAt is the timestamp when the issue was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent mutation. Every
	// update refreshes it.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Assignee is the assignee's user summary when one is set.
	Assignee *UserSummary `json:"assignee,omitempty"`

	// Creator is the creator's user summary, populated for detail views.
	Creator *UserSummary `json:"creator,omitempty"`

	// Project is the owning project's reference, populated for
	// cross-project list and detail views.
	Project *ProjectRef `json:"project,omitempty"`

	// Comments holds the issue's comments ordered by creation time,
	// populated for detail views.
	Comments []Comment `json:"comments,omitempty"`
}

// ProjectRef is the reduced project shape embedded in issue responses.
type ProjectRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// IssueType classifies an issue.
type IssueType string

// Supported issue types.
const (
	IssueTypeTask  IssueType = "TASK"
	IssueTypeBug   IssueType = "BUG"
	IssueTypeStory IssueType = "STORY"
	IssueTypeEpic  IssueType = "EPIC"
)

// Valid reports whether the type is one of the closed type set.
func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeTask, IssueTypeBug, IssueTypeStory, IssueTypeEpic:
		return true
	}
	return false
}

// ParseIssueType converts a wire string into an IssueType.
func ParseIssueType(s string) (IssueType, error) {
	t := IssueType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid issue type %q", s)
	}
	return t, nil
}

// IssueStatus is an issue's kanban column.
type IssueStatus string

// Supported issue statuses.
const (
	IssueStatusTodo       IssueStatus = "TODO"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusInReview   IssueStatus = "IN_REVIEW"
	IssueStatusDone       IssueStatus = "DONE"
)

// Valid reports whether the status is one of the closed status set.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusTodo, IssueStatusInProgress, IssueStatusInReview, IssueStatusDone:
		return true
	}
	return false
}

// ParseIssueStatus converts a wire string into an IssueStatus.
func ParseIssueStatus(s string) (IssueStatus, error) {
	st := IssueStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid issue status %q", s)
	}
	return st, nil
}

// IssuePriority is an issue's triage priority.
type IssuePriority string

// Supported issue priorities.
const (
	IssuePriorityLowest  IssuePriority = "LOWEST"
	IssuePriorityLow     IssuePriority = "LOW"
	IssuePriorityMedium  IssuePriority = "MEDIUM"
	IssuePriorityHigh    IssuePriority = "HIGH"
	IssuePriorityHighest IssuePriority = "HIGHEST"
)

// Valid reports whether the priority is one of the closed priority set.
func (p IssuePriority) Valid() bool {
	switch p {
	case IssuePriorityLowest, IssuePriorityLow, IssuePriorityMedium, IssuePriorityHigh, IssuePriorityHighest:
		return true
	}
	return false
}

// ParseIssuePriority converts a wire string into an IssuePriority.
func ParseIssuePriority(s string) (IssuePriority, error) {
	p := IssuePriority(s)
	if !p.Valid() {
		return "", fmt.Errorf("invalid issue priority %q", s)
	}
	return p, nil
}
