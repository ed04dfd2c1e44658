package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/taskflow-app/apiserver/types"
)

// CommentRepository handles persistence for issue comments.
type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts the comment and returns it with the author summary.
func (r *CommentRepository) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	comment.CreatedAt = time.Now()

	const query = `
		INSERT INTO comments (content, issue_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		comment.Content,
		comment.IssueID,
		comment.UserID,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return types.Comment{}, err
	}

	const authorQuery = `SELECT name, email FROM users WHERE id = $1`
	var author types.UserSummary
	if err := r.db.QueryRowContext(ctx, authorQuery, comment.UserID).Scan(&author.Name, &author.Email); err != nil {
		return types.Comment{}, err
	}
	comment.User = &author
	return comment, nil
}
