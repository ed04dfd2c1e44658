package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/taskflow-app/apiserver/types"
)

// Event kinds published to the issue-events channel.
const (
	KindIssueCreated   = "issue.created"
	KindIssueUpdated   = "issue.updated"
	KindCommentCreated = "comment.created"
)

// Envelope is the JSON payload delivered to the broker for every
// issue-activity event.
type Envelope struct {
	Kind       string         `json:"kind"`
	ProjectID  int            `json:"projectId"`
	IssueID    int            `json:"issueId"`
	OccurredAt time.Time      `json:"occurredAt"`
	Issue      *types.Issue   `json:"issue,omitempty"`
	Comment    *types.Comment `json:"comment,omitempty"`
}

// Backend defines the broker-agnostic publish operation.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher emits issue-activity events to a configured backend.
// A nil Publisher, or one without a backend, drops every event; issue
// mutations never depend on broker availability.
type Publisher struct {
	backend Backend
	channel string
}

// NewPublisher wraps a backend with the channel events are published to.
func NewPublisher(backend Backend, channel string) *Publisher {
	return &Publisher{backend: backend, channel: channel}
}

// IssueCreated publishes an issue.created event. Best effort.
func (p *Publisher) IssueCreated(ctx context.Context, issue types.Issue) {
	p.publish(ctx, Envelope{
		Kind:      KindIssueCreated,
		ProjectID: issue.ProjectID,
		IssueID:   issue.ID,
		Issue:     &issue,
	})
}

// IssueUpdated publishes an issue.updated event. Best effort.
func (p *Publisher) IssueUpdated(ctx context.Context, issue types.Issue) {
	p.publish(ctx, Envelope{
		Kind:      KindIssueUpdated,
		ProjectID: issue.ProjectID,
		IssueID:   issue.ID,
		Issue:     &issue,
	})
}

// CommentCreated publishes a comment.created event. Best effort.
func (p *Publisher) CommentCreated(ctx context.Context, projectID int, comment types.Comment) {
	p.publish(ctx, Envelope{
		Kind:      KindCommentCreated,
		ProjectID: projectID,
		IssueID:   comment.IssueID,
		Comment:   &comment,
	})
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}

func (p *Publisher) publish(ctx context.Context, envelope Envelope) {
	if p == nil || p.backend == nil {
		return
	}
	envelope.OccurredAt = time.Now()

	data, err := json.Marshal(envelope)
	if err != nil {
		slog.Error("marshal event", "kind", envelope.Kind, "error", err)
		return
	}

	attrs := map[string]string{"kind": envelope.Kind}
	if _, err := p.backend.Publish(ctx, p.channel, data, attrs); err != nil {
		slog.Error("publish event", "kind", envelope.Kind, "issue_id", envelope.IssueID, "error", err)
	}
}
