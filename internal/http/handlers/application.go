package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"internsaathi/internal/app"
	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/domain/application"
	"internsaathi/internal/http/middleware"
	"internsaathi/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

type applicationResponse struct {
	Message     string                   `json:"message"`
	Application *application.Application `json:"application"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Submit handles POST /api/applications/{internshipId} as multipart form data
// with the resume under "resume".
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	internshipID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "apply:" + internshipID.String() + ":" + caller.ID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	resume, err := formFile(r, "resume")
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.applications.Submit(r.Context(), caller, internshipID, app.SubmitInput{
		CoverLetter: formValue(r, "cover_letter", "coverLetter"),
		LinkedinURL: formValue(r, "linkedin_url", "linkedinUrl"),
		GithubURL:   formValue(r, "github_url", "githubUrl"),
		Resume:      resume,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, applicationResponse{Message: "Application submitted successfully!", Application: created})
}

func (h *ApplicationHandler) ListStudent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.applications.ListForStudent)
}

func (h *ApplicationHandler) ListCompany(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.applications.ListForCompany)
}

func (h *ApplicationHandler) ListCollege(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.applications.ListForCollege)
}

func (h *ApplicationHandler) ListInternship(w http.ResponseWriter, r *http.Request) {
	internshipID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	h.list(w, r, func(ctx context.Context, caller account.Account) ([]application.View, error) {
		return h.applications.ListForInternship(ctx, caller, internshipID)
	})
}

func (h *ApplicationHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, account.Account) ([]application.View, error)) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := fetch(r.Context(), caller)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"status": "status is required"}))
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), caller, applicationID, application.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, applicationResponse{Message: "Application status updated successfully!", Application: updated})
}

// DownloadResume redirects the owning company to the stored resume.
func (h *ApplicationHandler) DownloadResume(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	resume, err := h.applications.ResumeURL(r.Context(), caller, applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resume.Filename))
	http.Redirect(w, r, resume.URL, http.StatusFound)
}
