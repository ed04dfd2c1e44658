package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow-app/apiserver/internal/services"
	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

// IssueHandler provides HTTP handlers for issues and comments.
type IssueHandler struct {
	issueService  *services.IssueService
	memberService *services.MemberService
}

// NewIssueHandler constructs a handler with the provided services.
func NewIssueHandler(issueService *services.IssueService, memberService *services.MemberService) *IssueHandler {
	return &IssueHandler{issueService: issueService, memberService: memberService}
}

// IssueRouter registers the cross-project issue routes.
func IssueRouter(r chi.Router, handler *IssueHandler) {
	r.Get("/", handler.ListIssues)
}

// ListIssues returns every issue in every project the caller can access,
// most recently updated first.
func (h *IssueHandler) ListIssues(w http.ResponseWriter, r *http.Request) {
	auth, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	issues, err := h.issueService.ListForUser(r.Context(), auth.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, issues)
}

// CreateIssue creates an issue within the project.
func (h *IssueHandler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	auth, projectID, ok := h.requireAccess(w, r)
	if !ok {
		return
	}

	var req CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, msgIssueTitleRequired)
		return
	}

	issue := types.Issue{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		CreatorID:   auth.ID,
		AssigneeID:  req.AssigneeID,
	}
	if req.Type != "" {
		issueType, err := types.ParseIssueType(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidIssueType)
			return
		}
		issue.Type = issueType
	}
	if req.Priority != "" {
		priority, err := types.ParseIssuePriority(req.Priority)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidPriority)
			return
		}
		issue.Priority = priority
	}

	created, err := h.issueService.Create(r.Context(), issue)
	if err != nil {
		if errors.Is(err, store.ErrNotMember) {
			writeError(w, http.StatusBadRequest, msgAssigneeNotMember)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetIssue returns the issue detail with assignee, creator, project
// reference, and comments ordered by creation time.
func (h *IssueHandler) GetIssue(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireAccess(w, r)
	if !ok {
		return
	}

	issueID, err := parseIDParam(r, "issueID")
	if err != nil {
		writeError(w, http.StatusNotFound, msgIssueNotFound)
		return
	}

	issue, err := h.issueService.GetDetail(r.Context(), issueID, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgIssueNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// UpdateIssue applies a partial patch. Only supplied fields change;
// updatedAt is always refreshed. assigneeId set to null unassigns.
func (h *IssueHandler) UpdateIssue(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireAccess(w, r)
	if !ok {
		return
	}

	issueID, err := parseIDParam(r, "issueID")
	if err != nil {
		writeError(w, http.StatusNotFound, msgIssueNotFound)
		return
	}

	var req UpdateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	patch, errMsg := req.toPatch()
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	issue, err := h.issueService.Update(r.Context(), issueID, projectID, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotMember):
			writeError(w, http.StatusBadRequest, msgAssigneeNotMember)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, msgIssueNotFound)
		default:
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// AddComment attaches a comment to an issue within the project.
func (h *IssueHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	auth, projectID, ok := h.requireAccess(w, r)
	if !ok {
		return
	}

	issueID, err := parseIDParam(r, "issueID")
	if err != nil {
		writeError(w, http.StatusNotFound, msgIssueNotFound)
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		writeError(w, http.StatusBadRequest, msgCommentRequired)
		return
	}

	comment, err := h.issueService.AddComment(r.Context(), projectID, types.Comment{
		Content: content,
		IssueID: issueID,
		UserID:  auth.ID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgIssueNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

type CreateIssueRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	AssigneeID  *int   `json:"assigneeId"`
}

// UpdateIssueRequest distinguishes absent fields from explicit nulls:
// assigneeId keeps raw JSON so `"assigneeId": null` can unassign while
// an omitted key leaves the assignee alone.
type UpdateIssueRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Status      *string         `json:"status"`
	Priority    *string         `json:"priority"`
	AssigneeID  json.RawMessage `json:"assigneeId"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

func (req UpdateIssueRequest) toPatch() (store.IssuePatch, string) {
	var patch store.IssuePatch

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return store.IssuePatch{}, msgIssueTitleRequired
		}
		patch.Title = &title
	}
	patch.Description = req.Description

	if req.Status != nil {
		status, err := types.ParseIssueStatus(*req.Status)
		if err != nil {
			return store.IssuePatch{}, msgInvalidStatus
		}
		patch.Status = &status
	}
	if req.Priority != nil {
		priority, err := types.ParseIssuePriority(*req.Priority)
		if err != nil {
			return store.IssuePatch{}, msgInvalidPriority
		}
		patch.Priority = &priority
	}

	if len(req.AssigneeID) > 0 {
		if bytes.Equal(bytes.TrimSpace(req.AssigneeID), []byte("null")) {
			patch.ClearAssignee = true
		} else {
			var assigneeID int
			if err := json.Unmarshal(req.AssigneeID, &assigneeID); err != nil || assigneeID < 1 {
				return store.IssuePatch{}, msgInvalidRequest
			}
			patch.AssigneeID = &assigneeID
		}
	}
	return patch, ""
}

// requireAccess resolves the identity and projectID and enforces the
// creator-or-member rule for the issue surface.
func (h *IssueHandler) requireAccess(w http.ResponseWriter, r *http.Request) (AuthUser, int, bool) {
	auth, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return AuthUser{}, 0, false
	}

	projectID, err := parseIDParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return AuthUser{}, 0, false
	}

	hasAccess, err := h.memberService.HasAccess(r.Context(), projectID, auth.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return AuthUser{}, 0, false
	}
	if !hasAccess {
		writeError(w, http.StatusForbidden, msgNoProjectAccess)
		return AuthUser{}, 0, false
	}
	return auth, projectID, true
}
