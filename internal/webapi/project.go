package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/vuhoang/whatif-studio/internal/pipeline"
	"github.com/vuhoang/whatif-studio/internal/store"
)

// ProjectService is the slice of the pipeline the project handlers need.
type ProjectService interface {
	GetProject(ctx context.Context, projectID string) (*store.Project, error)
	ListProjects(ctx context.Context, userID string, limit int32) ([]*store.Project, error)
	CreateShareLink(ctx context.Context, projectID, platform string) (*pipeline.ShareLink, error)
}

// ProjectAPI serves project reads, listings, share links, and ZIP downloads.
type ProjectAPI struct {
	Svc    ProjectService
	S3     ObjectGetter
	Bucket string
}

// HandleProjectRoutes dispatches /api/projects/{id} and
// /api/projects/{id}/download.
func (a *ProjectAPI) HandleProjectRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		HTTPError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/projects/"), "/")
	projectID := parts[0]
	if projectID == "" {
		HTTPError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case len(parts) == 1:
		a.handleGetProject(w, r, projectID)
	case len(parts) == 2 && parts[1] == "download":
		a.handleDownload(w, r, projectID)
	default:
		HTTPError(w, http.StatusNotFound, "not found")
	}
}

// GET /api/projects/{id}
func (a *ProjectAPI) handleGetProject(w http.ResponseWriter, r *http.Request, projectID string) {
	project, err := a.Svc.GetProject(r.Context(), projectID)
	if err != nil {
		RespondFault(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, project)
}

// HandleUserProjects serves GET /api/users/{id}/projects?limit=N.
func (a *ProjectAPI) HandleUserProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		HTTPError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	userID, suffix, ok := strings.Cut(rest, "/")
	if !ok || suffix != "projects" || userID == "" {
		HTTPError(w, http.StatusNotFound, "not found")
		return
	}

	var limit int32
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			HTTPError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = int32(n)
	}

	projects, err := a.Svc.ListProjects(r.Context(), userID, limit)
	if err != nil {
		RespondFault(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"count":    len(projects),
	})
}

// HandleShare serves POST /api/share.
// Body: {"projectId": "...", "platform": "copy|facebook|twitter|reddit"}
func (a *ProjectAPI) HandleShare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		HTTPError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ProjectID string `json:"projectId"`
		Platform  string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		HTTPError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := a.Svc.CreateShareLink(r.Context(), req.ProjectID, req.Platform)
	if err != nil {
		RespondFault(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*pipeline.ShareLink
	}{true, link})
}
