package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-app/apiserver/types"
)

// IssuePatch carries the fields of a partial issue update. Nil pointers
// leave the column untouched. ClearAssignee unassigns the issue and wins
// over AssigneeID.
type IssuePatch struct {
	Title         *string
	Description   *string
	Status        *types.IssueStatus
	Priority      *types.IssuePriority
	AssigneeID    *int
	ClearAssignee bool
}

// IssueRepository handles persistence for issues.
type IssueRepository struct {
	db *sql.DB
}

func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Create inserts the issue. When an assignee is set, its membership in
// the issue's project is verified inside the same transaction so a
// concurrent removal cannot slip a non-member assignee in.
func (r *IssueRepository) Create(ctx context.Context, issue types.Issue) (types.Issue, error) {
	now := time.Now()
	issue.CreatedAt = now
	issue.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Issue{}, err
	}
	defer tx.Rollback()

	if issue.AssigneeID != nil {
		ok, err := memberExists(ctx, tx, issue.ProjectID, *issue.AssigneeID)
		if err != nil {
			return types.Issue{}, err
		}
		if !ok {
			return types.Issue{}, ErrNotMember
		}
	}

	const query = `
		INSERT INTO issues (title, description, type, status, priority, project_id, creator_id, assignee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		query,
		issue.Title,
		issue.Description,
		issue.Type,
		issue.Status,
		issue.Priority,
		issue.ProjectID,
		issue.CreatorID,
		issue.AssigneeID,
		issue.CreatedAt,
		issue.UpdatedAt,
	).Scan(&issue.ID); err != nil {
		return types.Issue{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Issue{}, err
	}
	return issue, nil
}

// Update applies the patch to the issue scoped to its project and always
// refreshes updated_at. A newly set assignee is validated as a project
// member inside the same transaction.
func (r *IssueRepository) Update(ctx context.Context, issueID, projectID int, patch IssuePatch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if !patch.ClearAssignee && patch.AssigneeID != nil {
		ok, err := memberExists(ctx, tx, projectID, *patch.AssigneeID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotMember
		}
	}

	sets := []string{"updated_at = $1"}
	args := []any{time.Now()}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.ClearAssignee {
		sets = append(sets, "assignee_id = NULL")
	} else if patch.AssigneeID != nil {
		add("assignee_id", *patch.AssigneeID)
	}

	args = append(args, issueID, projectID)
	query := fmt.Sprintf(
		"UPDATE issues SET %s WHERE id = $%d AND project_id = $%d",
		strings.Join(sets, ", "),
		len(args)-1,
		len(args),
	)

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// GetDetail returns the issue joined with assignee, creator, project
// reference, and its comments ordered by creation time.
func (r *IssueRepository) GetDetail(ctx context.Context, issueID, projectID int) (types.Issue, error) {
	const query = `
		SELECT i.id, i.title, i.description, i.type, i.status, i.priority,
			i.project_id, i.creator_id, i.assignee_id, i.created_at, i.updated_at,
			a.id, a.name, a.email,
			c.id, c.name, c.email,
			p.id, p.name, p.key
		FROM issues i
		LEFT JOIN users a ON a.id = i.assignee_id
		JOIN users c ON c.id = i.creator_id
		JOIN projects p ON p.id = i.project_id
		WHERE i.id = $1 AND i.project_id = $2`

	var issue types.Issue
	var assigneeID sql.NullInt64
	var assigneeName, assigneeEmail sql.NullString
	var creator types.UserSummary
	var project types.ProjectRef
	err := r.db.QueryRowContext(ctx, query, issueID, projectID).Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Type,
		&issue.Status,
		&issue.Priority,
		&issue.ProjectID,
		&issue.CreatorID,
		&issue.AssigneeID,
		&issue.CreatedAt,
		&issue.UpdatedAt,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
		&creator.ID,
		&creator.Name,
		&creator.Email,
		&project.ID,
		&project.Name,
		&project.Key,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Issue{}, ErrNotFound
		}
		return types.Issue{}, err
	}

	if assigneeID.Valid {
		issue.Assignee = &types.UserSummary{
			ID:    int(assigneeID.Int64),
			Name:  assigneeName.String,
			Email: assigneeEmail.String,
		}
	}
	issue.Creator = &creator
	issue.Project = &project

	comments, err := r.listComments(ctx, issueID)
	if err != nil {
		return types.Issue{}, err
	}
	issue.Comments = comments
	return issue, nil
}

// ExistsInProject reports whether the issue belongs to the project.
func (r *IssueRepository) ExistsInProject(ctx context.Context, issueID, projectID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM issues WHERE id = $1 AND project_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, issueID, projectID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListForUser returns issues across every project the user created or is
// a member of, with assignee, creator, and project references, most
// recently updated first.
func (r *IssueRepository) ListForUser(ctx context.Context, userID int) ([]types.Issue, error) {
	const query = `
		SELECT i.id, i.title, i.description, i.type, i.status, i.priority,
			i.project_id, i.creator_id, i.assignee_id, i.created_at, i.updated_at,
			a.name, a.email,
			c.name, c.email,
			p.id, p.name, p.key
		FROM issues i
		LEFT JOIN users a ON a.id = i.assignee_id
		JOIN users c ON c.id = i.creator_id
		JOIN projects p ON p.id = i.project_id
		WHERE p.creator_id = $1
			OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1)
		ORDER BY i.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := make([]types.Issue, 0)
	for rows.Next() {
		var issue types.Issue
		var assigneeName, assigneeEmail sql.NullString
		var creator types.UserSummary
		var project types.ProjectRef
		if err := rows.Scan(
			&issue.ID,
			&issue.Title,
			&issue.Description,
			&issue.Type,
			&issue.Status,
			&issue.Priority,
			&issue.ProjectID,
			&issue.CreatorID,
			&issue.AssigneeID,
			&issue.CreatedAt,
			&issue.UpdatedAt,
			&assigneeName,
			&assigneeEmail,
			&creator.Name,
			&creator.Email,
			&project.ID,
			&project.Name,
			&project.Key,
		); err != nil {
			return nil, err
		}
		if assigneeName.Valid {
			issue.Assignee = &types.UserSummary{Name: assigneeName.String, Email: assigneeEmail.String}
		}
		issue.Creator = &creator
		issue.Project = &project
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

func (r *IssueRepository) listComments(ctx context.Context, issueID int) ([]types.Comment, error) {
	const query = `
		SELECT c.id, c.content, c.issue_id, c.user_id, c.created_at, u.name, u.email
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.issue_id = $1
		ORDER BY c.created_at`
	rows, err := r.db.QueryContext(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]types.Comment, 0)
	for rows.Next() {
		var comment types.Comment
		var user types.UserSummary
		if err := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.IssueID,
			&comment.UserID,
			&comment.CreatedAt,
			&user.Name,
			&user.Email,
		); err != nil {
			return nil, err
		}
		comment.User = &user
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

func memberExists(ctx context.Context, tx *sql.Tx, projectID, userID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`
	var exists bool
	if err := tx.QueryRowContext(ctx, query, projectID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
