package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskflow-app/apiserver/types"
)

// MemberRepository handles persistence for project memberships.
type MemberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// GetByProjectAndUser returns the membership a user holds in a project.
func (r *MemberRepository) GetByProjectAndUser(ctx context.Context, projectID, userID int) (types.ProjectMember, error) {
	const query = `
		SELECT id, project_id, user_id, role, joined_at
		FROM project_members
		WHERE project_id = $1 AND user_id = $2`
	return r.scanMember(r.db.QueryRowContext(ctx, query, projectID, userID))
}

// GetByID returns a membership by its own id, scoped to the project.
func (r *MemberRepository) GetByID(ctx context.Context, projectID, memberID int) (types.ProjectMember, error) {
	const query = `
		SELECT id, project_id, user_id, role, joined_at
		FROM project_members
		WHERE id = $1 AND project_id = $2`
	return r.scanMember(r.db.QueryRowContext(ctx, query, memberID, projectID))
}

func (r *MemberRepository) Create(ctx context.Context, member types.ProjectMember) (types.ProjectMember, error) {
	member.JoinedAt = time.Now()

	const query = `
		INSERT INTO project_members (project_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		member.ProjectID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	).Scan(&member.ID); err != nil {
		if isUniqueViolation(err) {
			return types.ProjectMember{}, ErrConflict
		}
		return types.ProjectMember{}, err
	}
	return member, nil
}

func (r *MemberRepository) UpdateRole(ctx context.Context, memberID int, role types.Role) error {
	const query = `
		UPDATE project_members
		SET role = $1
		WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, role, memberID)
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
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, memberID int) error {
	const query = `DELETE FROM project_members WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, memberID)
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
	return nil
}

// ListByProject returns the project's memberships with user summaries,
// ordered by join time.
func (r *MemberRepository) ListByProject(ctx context.Context, projectID int) ([]types.ProjectMember, error) {
	const query = `
		SELECT m.id, m.project_id, m.user_id, m.role, m.joined_at, u.id, u.name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]types.ProjectMember, 0)
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
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

// GetWithUser returns a membership joined with its user summary.
func (r *MemberRepository) GetWithUser(ctx context.Context, memberID int) (types.ProjectMember, error) {
	const query = `
		SELECT m.id, m.project_id, m.user_id, m.role, m.joined_at, u.id, u.name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1`
	var member types.ProjectMember
	var user types.UserSummary
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(
		&member.ID,
		&member.ProjectID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
		&user.ID,
		&user.Name,
		&user.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ProjectMember{}, ErrNotFound
		}
		return types.ProjectMember{}, err
	}
	member.User = &user
	return member, nil
}

func (r *MemberRepository) scanMember(row *sql.Row) (types.ProjectMember, error) {
	var member types.ProjectMember
	err := row.Scan(
		&member.ID,
		&member.ProjectID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ProjectMember{}, ErrNotFound
		}
		return types.ProjectMember{}, err
	}
	return member, nil
}
