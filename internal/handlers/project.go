package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taskflow-app/apiserver/internal/services"
	"github.com/taskflow-app/apiserver/internal/store"
	"github.com/taskflow-app/apiserver/types"
)

// ProjectHandler provides HTTP handlers for projects and their members.
type ProjectHandler struct {
	projectService *services.ProjectService
	memberService  *services.MemberService
	userService    *services.UserService
}

// NewProjectHandler constructs a handler with the provided services.
func NewProjectHandler(
	projectService *services.ProjectService,
	memberService *services.MemberService,
	userService *services.UserService,
) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		memberService:  memberService,
		userService:    userService,
	}
}

// ProjectRouter registers project routes on the given router. All routes
// require authentication; the middleware is applied by the caller.
func ProjectRouter(r chi.Router, handler *ProjectHandler, issueHandler *IssueHandler) {
	r.Get("/", handler.ListProjects)
	r.Post("/", handler.CreateProject)
	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", handler.GetProject)
		r.Get("/members", handler.ListMembers)
		r.Post("/members", handler.AddMember)
		r.Patch("/members/{memberID}", handler.UpdateMemberRole)
		r.Delete("/members/{memberID}", handler.RemoveMember)
		r.Route("/issues", func(r chi.Router) {
			r.Post("/", issueHandler.CreateIssue)
			r.Get("/{issueID}", issueHandler.GetIssue)
			r.Patch("/{issueID}", issueHandler.UpdateIssue)
			r.Post("/{issueID}/comments", issueHandler.AddComment)
		})
	})
}

// ListProjects returns every project the caller created or belongs to.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	auth, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	projects, err := h.projectService.ListForUser(r.Context(), auth.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// CreateProject creates a project; the caller becomes its OWNER.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	auth, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Key = strings.TrimSpace(req.Key)
	if req.Name == "" || req.Key == "" {
		writeError(w, http.StatusBadRequest, msgProjectFieldsReq)
		return
	}

	project, err := h.projectService.Create(r.Context(), types.Project{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		CreatorID:   auth.ID,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, msgProjectKeyTaken)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// GetProject returns the project detail with members and issues. A
// caller without access gets the same 404 as a missing project so the
// endpoint does not reveal which project ids exist.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireAccess(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.GetDetail(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ListMembers returns the project with its creator summary and its
// memberships ordered by join time.
func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireMembership(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	creator, err := h.userService.GetByID(r.Context(), project.CreatorID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	summary := creator.Summary()
	project.Creator = &summary

	members, err := h.memberService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}
	project.Members = members

	writeJSON(w, http.StatusOK, project)
}

// AddMember invites a user into the project with the MEMBER role.
func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if req.UserID < 1 {
		writeError(w, http.StatusBadRequest, msgUserIDRequired)
		return
	}

	member, err := h.memberService.Add(r.Context(), projectID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, store.ErrConflict):
			writeError(w, http.StatusBadRequest, msgAlreadyMember)
		default:
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

// UpdateMemberRole re-grades a member between MEMBER and ADMIN.
func (h *ProjectHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	memberID, err := parseIDParam(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	role, err := types.ParseRole(req.Role)
	if err != nil || role == types.RoleOwner {
		writeError(w, http.StatusBadRequest, msgInvalidRole)
		return
	}

	member, err := h.memberService.ChangeRole(r.Context(), projectID, memberID, role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOwnerImmutable):
			writeError(w, http.StatusBadRequest, msgOwnerRoleProtected)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, msgMemberNotFound)
		default:
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// RemoveMember deletes a membership. The OWNER can never be removed.
func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	_, projectID, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	memberID, err := parseIDParam(r, "memberID")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	if err := h.memberService.Remove(r.Context(), projectID, memberID); err != nil {
		switch {
		case errors.Is(err, services.ErrOwnerImmutable):
			writeError(w, http.StatusBadRequest, msgOwnerNotRemovable)
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, msgMemberNotFound)
		default:
			writeError(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgMemberRemoved})
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	UserID int `json:"userId"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

// requireAccess resolves the identity and the projectID parameter and
// answers 404 when the caller has no access, hiding project existence.
func (h *ProjectHandler) requireAccess(w http.ResponseWriter, r *http.Request) (AuthUser, int, bool) {
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
		writeError(w, http.StatusNotFound, msgProjectNotFound)
		return AuthUser{}, 0, false
	}
	return auth, projectID, true
}

// requireMembership is requireAccess with a 403 instead of a 404, used
// by the member-management surface where the project id is already known
// to the caller.
func (h *ProjectHandler) requireMembership(w http.ResponseWriter, r *http.Request) (AuthUser, int, bool) {
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

// requireManager additionally demands an OWNER or ADMIN role.
func (h *ProjectHandler) requireManager(w http.ResponseWriter, r *http.Request) (AuthUser, int, bool) {
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

	canManage, err := h.memberService.CanManage(r.Context(), projectID, auth.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return AuthUser{}, 0, false
	}
	if !canManage {
		writeError(w, http.StatusForbidden, msgNoPermission)
		return AuthUser{}, 0, false
	}
	return auth, projectID, true
}
