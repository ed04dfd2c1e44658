package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskflow-app/apiserver/types"
)

// ProjectRepository handles persistence for projects and their detail views.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateWithOwner inserts the project and its OWNER membership as one
// transaction. Either both records exist afterwards or neither does.
func (r *ProjectRepository) CreateWithOwner(ctx context.Context, project types.Project) (types.Project, error) {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Project{}, err
	}
	defer tx.Rollback()

	const insertProject = `
		INSERT INTO projects (name, key, description, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		insertProject,
		project.Name,
		project.Key,
		project.Description,
		project.CreatorID,
		project.CreatedAt,
		project.UpdatedAt,
	).Scan(&project.ID); err != nil {
		if isUniqueViolation(err) {
			return types.Project{}, ErrConflict
		}
		return types.Project{}, err
	}

	const insertOwner = `
		INSERT INTO project_members (project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertOwner, project.ID, project.CreatorID, types.RoleOwner, now); err != nil {
		return types.Project{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Project{}, err
	}
	return project, nil
}

// KeyExists reports whether a project with the given key already exists.
func (r *ProjectRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM projects WHERE key = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListForUser returns every project the user created or is a member of,
// annotated with member and issue counts, most recently updated first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID int) ([]types.Project, error) {
	const query = `
		SELECT p.id, p.name, p.key, p.description, p.creator_id, p.created_at, p.updated_at,
			(SELECT COUNT(1) FROM project_members m WHERE m.project_id = p.id),
			(SELECT COUNT(1) FROM issues i WHERE i.project_id = p.id)
		FROM projects p
		WHERE p.creator_id = $1
			OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1)
		ORDER BY p.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]types.Project, 0)
	for rows.Next() {
		var project types.Project
		var counts types.ProjectCounts
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Key,
			&project.Description,
			&project.CreatorID,
			&project.CreatedAt,
			&project.UpdatedAt,
			&counts.Members,
			&counts.Issues,
		); err != nil {
			return nil, err
		}
		project.Counts = &counts
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Get returns the bare project row.
func (r *ProjectRepository) Get(ctx context.Context, id int) (types.Project, error) {
	const query = `
		SELECT id, name, key, description, creator_id, created_at, updated_at
		FROM projects
		WHERE id = $1`
	var project types.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Key,
		&project.Description,
		&project.CreatorID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, ErrNotFound
		}
		return types.Project{}, err
	}
	return project, nil
}

// GetDetail returns the project with its membership list (user summaries
// included) and its issues ordered by most recent update.
func (r *ProjectRepository) GetDetail(ctx context.Context, id int) (types.Project, error) {
	project, err := r.Get(ctx, id)
	if err != nil {
		return types.Project{}, err
	}

	const membersQuery = `
		SELECT m.id, m.project_id, m.user_id, m.role, m.joined_at, u.id, u.name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at`
	rows, err := r.db.QueryContext(ctx, membersQuery, id)
	if err != nil {
		return types.Project{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var member types.ProjectMember
		var user types.UserSummary
		if err := rows.Scan(
			&member.ID,
			&member.ProjectID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
			&user.ID,
			&user.Name,
			&user.Email,
		); err != nil {
			return types.Project{}, err
		}
		member.User = &user
		project.Members = append(project.Members, member)
	}
	if err := rows.Err(); err != nil {
		return types.Project{}, err
	}

	const issuesQuery = `
		SELECT i.id, i.title, i.description, i.type, i.status, i.priority,
			i.project_id, i.creator_id, i.assignee_id, i.created_at, i.updated_at,
			a.name
		FROM issues i
		LEFT JOIN users a ON a.id = i.assignee_id
		WHERE i.project_id = $1
		ORDER BY i.updated_at DESC`
	issueRows, err := r.db.QueryContext(ctx, issuesQuery, id)
	if err != nil {
		return types.Project{}, err
	}
	defer issueRows.Close()

	for issueRows.Next() {
		var issue types.Issue
		var assigneeName sql.NullString
		if err := issueRows.Scan(
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
		); err != nil {
			return types.Project{}, err
		}
		if assigneeName.Valid {
			issue.Assignee = &types.UserSummary{Name: assigneeName.String}
		}
		project.Issues = append(project.Issues, issue)
	}
	return project, issueRows.Err()
}
