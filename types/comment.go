package types

import "time"

// Comment is an immutable note attached to an issue, ordered by
// creation time in issue detail views.
type Comment struct {
	ID        int          `json:"id" db:"id"`
	Content   string       `json:"content" db:"content"`
	IssueID   int          `json:"issueId" db:"issue_id"`
	UserID    int          `json:"userId" db:"user_id"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	User      *UserSummary `json:"user,omitempty"`
}
