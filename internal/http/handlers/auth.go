package handlers

import (
	"net/http"
	"strings"
	"time"

	"internsaathi/internal/app"
	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
	"internsaathi/internal/http/middleware"
	"internsaathi/internal/http/response"
)

type AuthHandler struct {
	auth      *app.AuthService
	directory *app.DirectoryService
	limiter   middleware.Limiter
}

func NewAuthHandler(auth *app.AuthService, directory *app.DirectoryService, limiter middleware.Limiter) *AuthHandler {
	return &AuthHandler{auth: auth, directory: directory, limiter: limiter}
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	Role                 string `json:"role"`
	StudentID            string `json:"student_id"`
	Major                string `json:"major"`
	CollegeName          string `json:"college_name"`
	CollegeLocation      string `json:"college_location"`
	CollegeLogo          string `json:"college_logo"`
	CompanyName          string `json:"company_name"`
	CompanyDescription   string `json:"company_description"`
	CompanyLogo          string `json:"company_logo"`
	VerificationDocument string `json:"verification_document"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, "register:ip:"+middleware.ClientIP(r), 5) {
		return
	}
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.Register(r.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Attributes: account.Attributes{
			StudentID:            req.StudentID,
			Major:                req.Major,
			CollegeName:          req.CollegeName,
			CollegeLocation:      req.CollegeLocation,
			CollegeLogo:          req.CollegeLogo,
			CompanyName:          req.CompanyName,
			CompanyDescription:   req.CompanyDescription,
			CompanyLogo:          req.CompanyLogo,
			VerificationDocument: req.VerificationDocument,
		},
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if !h.allow(w, "login:ip:"+middleware.ClientIP(r), 20) {
		return
	}
	if !h.allow(w, "login:email:"+strings.ToLower(strings.TrimSpace(req.Email)), 10) {
		return
	}
	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.auth.Me(caller))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var patch app.ProfilePatch
	if err := decodeJSON(r, &patch); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.UpdateProfile(r.Context(), caller, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *AuthHandler) CollegeStudents(w http.ResponseWriter, r *http.Request) {
	caller, err := callerFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	students, err := h.directory.ListCollegeStudents(r.Context(), caller)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, students)
}

func (h *AuthHandler) allow(w http.ResponseWriter, key string, limit int) bool {
	if h.limiter == nil || h.limiter.Allow(key, limit, time.Minute) {
		return true
	}
	response.Error(w, common.NewError(common.CodeRateLimited, "too many attempts, try again later", nil))
	return false
}
