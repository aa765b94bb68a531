package handlers

import (
	"net/http"
	"time"

	"internsaathi/internal/app"
	"internsaathi/internal/common"
	"internsaathi/internal/http/middleware"
	"internsaathi/internal/http/response"
)

type UploadHandler struct {
	uploads *app.UploadService
	limiter middleware.Limiter
}

func NewUploadHandler(uploads *app.UploadService, limiter middleware.Limiter) *UploadHandler {
	return &UploadHandler{uploads: uploads, limiter: limiter}
}

type uploadResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"image_url"`
}

// Upload stores the multipart file under "image". It serves both the public
// registration route and the authenticated profile route.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key := "upload:ip:" + middleware.ClientIP(r)
	if caller, ok := middleware.AccountFromContext(r.Context()); ok {
		key = "upload:account:" + caller.ID.String()
	}
	if h.limiter != nil && !h.limiter.Allow(key, 20, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "upload rate limit exceeded", nil))
		return
	}
	file, err := formFile(r, "image")
	if err != nil {
		response.Error(w, err)
		return
	}
	url, err := h.uploads.Upload(r.Context(), file)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, uploadResponse{Message: "File uploaded successfully", ImageURL: url})
}
