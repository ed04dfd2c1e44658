package services

import (
	"context"

	"github.com/taskflow-app/apiserver/internal/events"
	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

// IssueRepository defines persistence operations for issues.
type IssueRepository interface {
	Create(ctx context.Context, issue types.Issue) (types.Issue, error)
	Update(ctx context.Context, issueID, projectID int, patch store.IssuePatch) error
	GetDetail(ctx context.Context, issueID, projectID int) (types.Issue, error)
	ExistsInProject(ctx context.Context, issueID, projectID int) (bool, error)
	ListForUser(ctx context.Context, userID int) ([]types.Issue, error)
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
}

// IssueService encapsulates issue and comment use-cases.
type IssueService struct {
	issues    IssueRepository
	comments  CommentRepository
	publisher *events.Publisher
}

func NewIssueService(issues IssueRepository, comments CommentRepository, publisher *events.Publisher) *IssueService {
	return &IssueService{issues: issues, comments: comments, publisher: publisher}
}

// Create inserts the issue, filling in the defaults for omitted fields
// (TASK / MEDIUM / TODO). Returns store.ErrNotMember when the assignee
// does not belong to the project.
func (s *IssueService) Create(ctx context.Context, issue types.Issue) (types.Issue, error) {
	if issue.Type == "" {
		issue.Type = types.IssueTypeTask
	}
	if issue.Priority == "" {
		issue.Priority = types.IssuePriorityMedium
	}
	issue.Status = types.IssueStatusTodo

	created, err := s.issues.Create(ctx, issue)
	if err != nil {
		return types.Issue{}, err
	}

	detail, err := s.issues.GetDetail(ctx, created.ID, created.ProjectID)
	if err != nil {
		return types.Issue{}, err
	}

	s.publisher.IssueCreated(ctx, detail)
	return detail, nil
}

// Update applies a partial patch and returns the re-joined issue detail.
func (s *IssueService) Update(ctx context.Context, issueID, projectID int, patch store.IssuePatch) (types.Issue, error) {
	if err := s.issues.Update(ctx, issueID, projectID, patch); err != nil {
		return types.Issue{}, err
	}

	detail, err := s.issues.GetDetail(ctx, issueID, projectID)
	if err != nil {
		return types.Issue{}, err
	}

	s.publisher.IssueUpdated(ctx, detail)
	return detail, nil
}

func (s *IssueService) GetDetail(ctx context.Context, issueID, projectID int) (types.Issue, error) {
	return s.issues.GetDetail(ctx, issueID, projectID)
}

func (s *IssueService) ListForUser(ctx context.Context, userID int) ([]types.Issue, error) {
	return s.issues.ListForUser(ctx, userID)
}

// AddComment attaches a comment to the issue after verifying the issue
// belongs to the project. Content is assumed validated and trimmed.
func (s *IssueService) AddComment(ctx context.Context, projectID int, comment types.Comment) (types.Comment, error) {
	exists, err := s.issues.ExistsInProject(ctx, comment.IssueID, projectID)
	if err != nil {
		return types.Comment{}, err
	}
	if !exists {
		return types.Comment{}, store.ErrNotFound
	}

	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return types.Comment{}, err
	}

	s.publisher.CommentCreated(ctx, projectID, created)
	return created, nil
}
